// Package prompt builds the text sent to the chat model. Every function is pure.
package prompt

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/brewmatch/internal/domain/attribute"
	"github.com/kailas-cloud/brewmatch/internal/domain/beer"
)

// System is the system role message sent with every prompt.
const System = "You are an assistant that only speaks JSON. Do not write normal text"

// Filter builds the interpretation prompt that turns a free-text request into a filter object.
func Filter(requestText string, schema []attribute.Attribute) string {
	keys := make([]string, len(schema))
	for i, a := range schema {
		keys[i] = strconv.Quote(string(a.Name()))
	}

	var b strings.Builder
	b.WriteString("Interpret the user request below, infer the preferences it expresses and encode them as a JSON object.\n\n")
	b.WriteString("The request is delimited by triple backticks:\n")
	fmt.Fprintf(&b, "```%s```\n\n", requestText)

	b.WriteString("Before interpreting, silently fix spelling mistakes and typos. ")
	b.WriteString("For example `Find me a strogn beer with AVB great than 10.0` should be read as ")
	b.WriteString("`Find me a strong beer with ABV great than 10.0`.\n\n")

	b.WriteString("The request may state preferences about these attributes:\n")
	for i, line := range describe(schema) {
		fmt.Fprintf(&b, "%d. %s\n", i+1, line)
	}

	b.WriteString("\nWhen the request is vague and gives no explicit bound, infer what it means and express it ")
	b.WriteString("with the attributes and ranges above. Qualitative words are thresholds: ")
	fmt.Fprintf(&b, "\"dark\" means \"ebc_gt\" in the upper part of %s, ", formatRange(attribute.EBCRange))
	fmt.Fprintf(&b, "\"strong\" means \"abv_gt\" in the upper part of %s. ", formatRange(attribute.ABVRange))
	b.WriteString("So `Find me a dark strong beer` becomes something like {\"abv_gt\": 10, \"ebc_gt\": 200}.\n\n")

	fmt.Fprintf(&b, "Only use keys from this list: [%s].\n", strings.Join(keys, ", "))
	b.WriteString("Never invent other keys: an output such as {\"test\": \"test\"} is not allowed. ")
	b.WriteString("If nothing can be inferred, output an empty JSON object: {}.\n")
	b.WriteString("Output the JSON object only, with no explanation, whether it is empty or not.\n\n")

	b.WriteString("Example: `Find me a strong beer that was brewed before May 2020 with an ABV above 5` ")
	b.WriteString("becomes {\"abv_gt\": 5, \"brewed_before\": \"05-2020\"}.\n\n")

	b.WriteString("Note: *_gt and *_lt are strict bounds. To include alcohol-free beer (ABV below 0.5) use \"abv_lt\": 0.6.\n")
	return b.String()
}

// describe renders one instruction line per measure or attribute, in schema order.
func describe(schema []attribute.Attribute) []string {
	var lines []string
	seenMeasure := make(map[string]bool)
	seenDate := false
	for _, a := range schema {
		switch a.Kind() {
		case attribute.Numeric:
			m := a.Measure()
			if seenMeasure[m] {
				continue
			}
			seenMeasure[m] = true
			lower := strings.ToLower(m)
			lines = append(lines, fmt.Sprintf(
				"%s (%s): ranges %s. 'greater than X' maps to \"%s_gt\": X, 'less than X' maps to \"%s_lt\": X.",
				m, measureTitle(m), formatRange(a.Domain()), lower, lower,
			))
		case attribute.Date:
			if seenDate {
				continue
			}
			seenDate = true
			lines = append(lines,
				"Brewed date: 'brewed before' or 'brewed after' a month, formatted mm-yyyy, "+
					"maps to \"brewed_before\": \"mm-yyyy\" or \"brewed_after\": \"mm-yyyy\".")
		case attribute.Text:
			lines = append(lines, describeText(a.Name()))
		}
	}
	return lines
}

func describeText(name attribute.Name) string {
	switch name {
	case attribute.Food:
		return "Food: infer the most relevant food in one or two words and map it to \"food\". " +
			"Join two words with an underscore (`fried chicken` becomes \"fried_chicken\") " +
			"and drop the word food (`spicy food` becomes \"spicy\")."
	case attribute.Hops:
		return "Hops: a preferred hop maps to \"hops\": \"hop name\"."
	case attribute.Malt:
		return "Malt: a preferred malt maps to \"malt\": \"malt name\"."
	case attribute.Yeast:
		return "Yeast: a preferred yeast maps to \"yeast\": \"yeast name\"."
	default:
		return fmt.Sprintf("%s: maps to %q.", name, string(name))
	}
}

func measureTitle(m string) string {
	switch m {
	case "ABV":
		return "Alcohol by Volume"
	case "IBU":
		return "International Bitterness Units"
	case "EBC":
		return "European Brewery Convention colour"
	default:
		return m
	}
}

func formatRange(r attribute.Range) string {
	return strconv.FormatFloat(r.Min, 'f', -1, 64) + " to " + strconv.FormatFloat(r.Max, 'f', -1, 64)
}

// Selection builds the prompt asking the model to pick one candidate and justify it.
func Selection(requestText string, candidates []beer.Projected) (string, error) {
	options, err := json.Marshal(candidates)
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	var b strings.Builder
	b.WriteString("Choose the beer from the list of options that best fits the user request.\n\n")
	b.WriteString("The user request:\n")
	fmt.Fprintf(&b, "```%s```\n\n", requestText)
	b.WriteString("The beer options, as a JSON list of records:\n")
	fmt.Fprintf(&b, "```%s```\n\n", options)

	b.WriteString("Do the following and do not include your reasoning in the output:\n")
	b.WriteString("1 - Work out what the user wants from the request.\n")
	b.WriteString("2 - Pick the one option that fits the request best. If no option is a good match, pick any one of them. ")
	b.WriteString("You must return exactly one beer; an empty answer is not allowed.\n")
	b.WriteString("3 - Decide why that beer is the best choice.\n\n")

	b.WriteString("Copy the factual fields verbatim from the chosen option. Output only this JSON object:\n\n")
	b.WriteString("{\n")
	b.WriteString("    \"name\": name of the chosen option,\n")
	b.WriteString("    \"title\": tagline of the chosen option,\n")
	b.WriteString("    \"first_brewed\": first_brewed of the chosen option,\n")
	b.WriteString("    \"abv\": abv of the chosen option,\n")
	b.WriteString("    \"ibu\": ibu of the chosen option,\n")
	b.WriteString("    \"ebc\": ebc of the chosen option,\n")
	b.WriteString("    \"food_pairing\": food_pairing of the chosen option,\n")
	b.WriteString("    \"image_url\": image_url of the chosen option,\n")
	b.WriteString("    \"recommendation_text\": a short note to the customer on why you recommend this beer\n")
	b.WriteString("}\n")
	return b.String(), nil
}
