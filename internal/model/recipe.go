package model

// Tag is a recipe tag as returned by the Mealie API.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RecipeSummary is the compact recipe representation from the list
// endpoint.
type RecipeSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Tags        []Tag  `json:"tags,omitempty"`
}

// RecipeDetail is the full recipe as returned by GET api/recipes/{id}.
type RecipeDetail struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Image        string        `json:"image,omitempty"`
	Ingredients  []Ingredient  `json:"recipeIngredient"`
	Instructions []Instruction `json:"recipeInstructions"`
}

// Ingredient is one line of a recipe's ingredient list. Selected is
// client-side state for the "add to shopping list" flow and is never
// sent over the wire.
type Ingredient struct {
	Note     string   `json:"note,omitempty"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     string   `json:"unit,omitempty"`
	Selected bool     `json:"-"`
}

// Instruction is a single recipe step.
type Instruction struct {
	Text string `json:"text"`
}

// RecipeCreatePayload is the body for POST api/recipes/ (structured
// create).
type RecipeCreatePayload struct {
	Name         string                    `json:"name"`
	Description  string                    `json:"description"`
	RecipeYield  string                    `json:"recipeYield"`
	PrepTime     string                    `json:"prepTime"`
	CookTime     string                    `json:"cookTime"`
	Ingredients  []RecipeCreateIngredient  `json:"ingredients"`
	Instructions []RecipeCreateInstruction `json:"instructions"`
}

// RecipeCreateIngredient is an ingredient line in a structured create
// payload.
type RecipeCreateIngredient struct {
	Note  string `json:"note"`
	Title string `json:"title"`
}

// RecipeCreateInstruction is an instruction step in a structured create
// payload.
type RecipeCreateInstruction struct {
	Text string `json:"text"`
}
