package recipe

import (
	"encoding/json"
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	ldJSONRe = regexp.MustCompile(`(?is)<script[^>]+type=["']application/ld\+json["'][^>]*>(.*?)</script>`)
	titleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

// ExtractHTML pulls the schema.org Recipe out of a page's JSON-LD markup and
// runs each recipeIngredient line through the ingredient parser. Pages with
// no recipe markup yield an empty extraction with a WarnNoRecipe warning
// rather than an error, so callers can still show the page title.
func ExtractHTML(htmlText string) Extraction {
	node := pickRecipe(extractLDJSON(htmlText))
	if node == nil {
		ext := Extraction{Title: pageTitle(htmlText), Ingredients: []Ingredient{}}
		ext.Warnings = append(ext.Warnings, Warning{
			Kind:    WarnNoRecipe,
			Message: "no schema.org Recipe JSON-LD found",
		})
		return ext
	}

	lines, ok := node["recipeIngredient"].([]any)
	if !ok {
		lines = nil
	}

	var sb strings.Builder
	for _, l := range lines {
		sb.WriteString(fmt.Sprint(l))
		sb.WriteByte('\n')
	}

	ext := Extract(sb.String())
	ext.Title = stringField(node, "name")
	if ext.Title == "" {
		ext.Title = pageTitle(htmlText)
	}
	ext.Yield = stringField(node, "recipeYield")
	ext.TotalTime = stringField(node, "totalTime")

	return ext
}

// extractLDJSON collects every JSON-LD object embedded in the page,
// flattening top-level arrays and @graph containers. Malformed blocks are
// skipped.
func extractLDJSON(htmlText string) []map[string]any {
	var out []map[string]any

	for _, m := range ldJSONRe.FindAllStringSubmatch(htmlText, -1) {
		var data any
		if err := json.Unmarshal([]byte(html.UnescapeString(m[1])), &data); err != nil {
			continue
		}
		out = append(out, flattenLD(data)...)
	}

	return out
}

func flattenLD(data any) []map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			var out []map[string]any
			for _, g := range graph {
				out = append(out, flattenLD(g)...)
			}
			return out
		}
		return []map[string]any{v}
	case []any:
		var out []map[string]any
		for _, d := range v {
			out = append(out, flattenLD(d)...)
		}
		return out
	}
	return nil
}

// pickRecipe returns the first object whose @type is Recipe, either directly
// or within a type list.
func pickRecipe(objs []map[string]any) map[string]any {
	for _, o := range objs {
		switch t := o["@type"].(type) {
		case string:
			if t == "Recipe" {
				return o
			}
		case []any:
			for _, e := range t {
				if s, ok := e.(string); ok && s == "Recipe" {
					return o
				}
			}
		}
	}
	return nil
}

// stringField reads a JSON-LD field that sites serialize as either a string
// or a one-element list.
func stringField(node map[string]any, key string) string {
	switch v := node[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case []any:
		if len(v) > 0 {
			return strings.TrimSpace(fmt.Sprint(v[0]))
		}
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%g", v))
	}
	return ""
}

func pageTitle(htmlText string) string {
	if m := titleRe.FindStringSubmatch(htmlText); m != nil {
		return strings.TrimSpace(html.UnescapeString(m[1]))
	}
	return ""
}
