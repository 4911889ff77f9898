package types

import "strings"

// Item name synonyms, folded after case/whitespace normalization. Covers
// regional names and the plurals of common household staples so that
// "Eggs", "egg" and "鸡蛋" all land on one canonical inventory key.
var nameSynonyms = map[string]string{
	// plurals of common staples
	"eggs":      "egg",
	"tomatoes":  "tomato",
	"potatoes":  "potato",
	"onions":    "onion",
	"carrots":   "carrot",
	"apples":    "apple",
	"bananas":   "banana",
	"peppers":   "pepper",
	"mushrooms": "mushroom",
	"lemons":    "lemon",

	// regional names
	"aubergine":    "eggplant",
	"courgette":    "zucchini",
	"coriander":    "cilantro",
	"scallion":     "green onion",
	"scallions":    "green onion",
	"spring onion": "green onion",

	// CJK names for staples the original tool tracked
	"鸡蛋":  "egg",
	"牛奶":  "milk",
	"胡萝卜": "carrot",
	"土豆":  "potato",
	"西红柿": "tomato",
	"番茄":  "tomato",
	"酸奶":  "yogurt",
	"豆腐":  "tofu",
	"面粉":  "flour",
}

// NormalizeName folds an item name to its canonical inventory key:
// lowercase, trimmed, inner whitespace collapsed, then synonym-mapped.
func NormalizeName(name string) string {
	folded := strings.ToLower(strings.TrimSpace(name))
	folded = strings.Join(strings.Fields(folded), " ")

	if canonical, ok := nameSynonyms[folded]; ok {
		return canonical
	}
	return folded
}
