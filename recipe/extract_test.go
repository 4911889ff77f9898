package recipe

import (
	"strings"
	"testing"

	"github.com/xraph/pantry/types"
)

func TestExtractLines(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Ingredient
	}{
		{
			name: "amount unit name",
			line: "200 g flour",
			want: Ingredient{Name: "flour", Quantity: types.Grams(200)},
		},
		{
			name: "kilograms fold to grams",
			line: "1.5 kg potatoes",
			want: Ingredient{Name: "potato", Quantity: types.Quantity{Amount: 1500000, Unit: types.UnitGram}},
		},
		{
			name: "amount then bare name counts pieces",
			line: "2 eggs",
			want: Ingredient{Name: "egg", Quantity: types.Quantity{Amount: 2000, Unit: types.UnitPortion}},
		},
		{
			name: "unknown token before name stays verbatim unit",
			line: "2 cloves garlic",
			want: Ingredient{Name: "garlic", Quantity: types.Quantity{Amount: 2000, Unit: types.Unit("cloves")}},
		},
		{
			name: "simple fraction",
			line: "1/2 cup milk",
			want: Ingredient{Name: "milk", Quantity: types.Quantity{Amount: 120000, Unit: types.UnitMilliliter}},
		},
		{
			name: "bulleted line",
			line: "- 50 ml cream",
			want: Ingredient{Name: "cream", Quantity: types.Milliliters(50)},
		},
		{
			name: "numbered line",
			line: "3. 100 g sugar",
			want: Ingredient{Name: "sugar", Quantity: types.Grams(100)},
		},
		{
			name: "cjk units",
			line: "500 克 面粉",
			want: Ingredient{Name: "flour", Quantity: types.Grams(500)},
		},
		{
			name: "no amount defaults to one portion",
			line: "salt to taste",
			want: Ingredient{Name: "salt to taste", Quantity: types.Portions(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := Extract(tt.line)
			if len(ext.Warnings) != 0 {
				t.Fatalf("unexpected warnings: %+v", ext.Warnings)
			}
			if len(ext.Ingredients) != 1 {
				t.Fatalf("got %d ingredients, want 1", len(ext.Ingredients))
			}
			got := ext.Ingredients[0]
			if got.Name != tt.want.Name {
				t.Errorf("name = %q, want %q", got.Name, tt.want.Name)
			}
			if got.Quantity != tt.want.Quantity {
				t.Errorf("quantity = %+v, want %+v", got.Quantity, tt.want.Quantity)
			}
		})
	}
}

func TestExtractSkipsHeadingsAndBlanks(t *testing.T) {
	ext := Extract("For the dough:\n\n200 g flour\n\nFor the filling:\n2 eggs\n")

	if len(ext.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", ext.Warnings)
	}
	if len(ext.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want 2", len(ext.Ingredients))
	}
}

func TestExtractMergesDuplicates(t *testing.T) {
	ext := Extract("100 g flour\n1 egg\n50 g flour\n")

	if len(ext.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want 2: %+v", len(ext.Ingredients), ext.Ingredients)
	}
	if got := ext.Ingredients[0].Quantity; got != types.Grams(150) {
		t.Errorf("merged flour = %+v, want %+v", got, types.Grams(150))
	}
}

func TestExtractMergesPiecesIntoPortions(t *testing.T) {
	ext := Extract("1 egg\n2 pieces egg\n")

	if len(ext.Ingredients) != 1 {
		t.Fatalf("got %d ingredients, want 1: %+v", len(ext.Ingredients), ext.Ingredients)
	}
	if got := ext.Ingredients[0].Quantity.Amount; got != 3000 {
		t.Errorf("merged amount = %d, want 3000", got)
	}
}

func TestExtractUnitConflict(t *testing.T) {
	ext := Extract("100 g tofu\n200 ml tofu\n")

	if len(ext.Ingredients) != 2 {
		t.Fatalf("got %d ingredients, want 2 separate entries", len(ext.Ingredients))
	}
	if len(ext.Warnings) != 1 || ext.Warnings[0].Kind != WarnUnitConflict {
		t.Fatalf("warnings = %+v, want one unit_conflict", ext.Warnings)
	}
}

func TestExtractWarnsOnUnparseableLine(t *testing.T) {
	ext := Extract("200 ml\n100 g flour\n")

	if len(ext.Ingredients) != 1 {
		t.Fatalf("got %d ingredients, want 1", len(ext.Ingredients))
	}
	if len(ext.Warnings) != 1 || ext.Warnings[0].Kind != WarnPartialParse {
		t.Fatalf("warnings = %+v, want one partial_parse", ext.Warnings)
	}
	if !strings.Contains(ext.Warnings[0].Line, "200 ml") {
		t.Errorf("warning line = %q, want the offending line", ext.Warnings[0].Line)
	}
}

const recipePage = `<!doctype html>
<html><head>
<title>Weeknight Omelette - Example Kitchen</title>
<script type="application/ld+json">
{
  "@context": "https://schema.org",
  "@type": "Recipe",
  "name": "Weeknight Omelette",
  "recipeYield": "2 servings",
  "totalTime": "PT15M",
  "recipeIngredient": ["3 eggs", "50 ml milk", "10 g butter"]
}
</script>
</head><body></body></html>`

func TestExtractHTML(t *testing.T) {
	ext := ExtractHTML(recipePage)

	if ext.Title != "Weeknight Omelette" {
		t.Errorf("title = %q", ext.Title)
	}
	if ext.Yield != "2 servings" {
		t.Errorf("yield = %q", ext.Yield)
	}
	if ext.TotalTime != "PT15M" {
		t.Errorf("totalTime = %q", ext.TotalTime)
	}
	if len(ext.Ingredients) != 3 {
		t.Fatalf("got %d ingredients, want 3: %+v", len(ext.Ingredients), ext.Ingredients)
	}
	if ext.Ingredients[0].Name != "egg" || ext.Ingredients[0].Quantity.Amount != 3000 {
		t.Errorf("first ingredient = %+v", ext.Ingredients[0])
	}
}

func TestExtractHTMLGraphContainer(t *testing.T) {
	page := `<script type="application/ld+json">
	{"@graph": [
	  {"@type": "WebSite", "name": "Example Kitchen"},
	  {"@type": ["Recipe", "Thing"], "name": "Soup", "recipeIngredient": ["1 l water"]}
	]}
	</script>`

	ext := ExtractHTML(page)
	if ext.Title != "Soup" {
		t.Errorf("title = %q, want Soup", ext.Title)
	}
	if len(ext.Ingredients) != 1 || ext.Ingredients[0].Quantity != types.Liters(1) {
		t.Fatalf("ingredients = %+v", ext.Ingredients)
	}
}

func TestExtractHTMLNoRecipe(t *testing.T) {
	ext := ExtractHTML("<html><head><title>Not Food</title></head></html>")

	if len(ext.Ingredients) != 0 {
		t.Fatalf("ingredients = %+v, want none", ext.Ingredients)
	}
	if len(ext.Warnings) != 1 || ext.Warnings[0].Kind != WarnNoRecipe {
		t.Fatalf("warnings = %+v, want one no_recipe", ext.Warnings)
	}
	if ext.Title != "Not Food" {
		t.Errorf("title = %q, want fallback from <title>", ext.Title)
	}
}
