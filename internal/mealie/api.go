package mealie

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mhaas/mealie-term/internal/model"
)

// pagedItems is the envelope Mealie wraps list responses in.
type pagedItems[T any] struct {
	Items []T `json:"items"`
}

// addItemPayload is the body for creating a shopping item.
type addItemPayload struct {
	Note           string  `json:"note"`
	ShoppingListID string  `json:"shoppingListId"`
	LabelID        *string `json:"labelId,omitempty"`
}

// updateItemPayload is the full-state body for an item PUT.
type updateItemPayload struct {
	ID             string   `json:"id"`
	Note           string   `json:"note"`
	ShoppingListID string   `json:"shoppingListId"`
	Checked        bool     `json:"checked"`
	LabelID        *string  `json:"labelId"`
	Quantity       *float64 `json:"quantity"`
}

// mealplanPayload is the body for creating a meal-plan entry.
type mealplanPayload struct {
	Date      string  `json:"date"`
	EntryType string  `json:"entryType"`
	RecipeID  *string `json:"recipeId,omitempty"`
	Title     *string `json:"title,omitempty"`
}

// FetchItems returns all shopping items of the household.
func (c *Client) FetchItems(ctx context.Context) ([]model.ShoppingItem, error) {
	var resp pagedItems[model.ShoppingItem]
	if err := c.get(ctx, "api/households/shopping/items", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddItem creates one shopping item on the given list. The server
// assigns the identifier; the returned item may omit the label even
// when labelID was sent.
func (c *Client) AddItem(ctx context.Context, note, listID string, labelID *string) (model.ShoppingItem, error) {
	payload := addItemPayload{
		Note:           note,
		ShoppingListID: listID,
		LabelID:        labelID,
	}

	var item model.ShoppingItem
	if err := c.post(ctx, "api/households/shopping/items", payload, &item); err != nil {
		return model.ShoppingItem{}, err
	}
	return item, nil
}

// UpdateItem pushes the full state of an item. The call is idempotent;
// errors are surfaced to the caller, never retried here.
func (c *Client) UpdateItem(ctx context.Context, item model.ShoppingItem) error {
	payload := updateItemPayload{
		ID:             item.ID,
		Note:           item.Note,
		ShoppingListID: item.ShoppingListID,
		Checked:        item.Checked,
		Quantity:       item.Quantity,
	}
	if item.Label != nil {
		payload.LabelID = &item.Label.ID
	}

	return c.put(ctx, "api/households/shopping/items/"+item.ID, payload)
}

// DeleteItem removes one shopping item by id.
func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.del(ctx, "api/households/shopping/items/"+id)
}

// FetchLabels returns the group's labels.
func (c *Client) FetchLabels(ctx context.Context) ([]model.Label, error) {
	var resp pagedItems[model.Label]
	if err := c.get(ctx, "api/groups/labels", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// FetchLists returns the household's shopping lists.
func (c *Client) FetchLists(ctx context.Context) ([]model.ShoppingList, error) {
	var resp pagedItems[model.ShoppingList]
	if err := c.get(ctx, "api/households/shopping/lists", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// FetchRecipes returns the recipe summaries.
func (c *Client) FetchRecipes(ctx context.Context) ([]model.RecipeSummary, error) {
	var resp pagedItems[model.RecipeSummary]
	if err := c.get(ctx, "api/recipes", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// FetchRecipeDetail returns the full recipe for an id or slug.
func (c *Client) FetchRecipeDetail(ctx context.Context, id string) (model.RecipeDetail, error) {
	var detail model.RecipeDetail
	if err := c.get(ctx, "api/recipes/"+id, &detail); err != nil {
		return model.RecipeDetail{}, err
	}
	return detail, nil
}

// CreateRecipe creates a recipe from a structured payload.
func (c *Client) CreateRecipe(ctx context.Context, payload model.RecipeCreatePayload) error {
	return c.post(ctx, "api/recipes/", payload, nil)
}

// CreateRecipeFromURL asks the server to scrape a recipe from a URL and
// returns the generated slug.
func (c *Client) CreateRecipeFromURL(ctx context.Context, recipeURL string) (string, error) {
	body := map[string]string{"url": recipeURL}

	var slug string
	if err := c.post(ctx, "api/recipes/create/url", body, &slug); err != nil {
		return "", err
	}
	return slug, nil
}

// CreateRecipeFromJSON submits raw recipe JSON or HTML for server-side
// parsing and returns the generated slug.
func (c *Client) CreateRecipeFromJSON(ctx context.Context, data string) (string, error) {
	body := map[string]string{"data": data}

	var slug string
	if err := c.post(ctx, "api/recipes/create/html-or-json", body, &slug); err != nil {
		return "", err
	}
	return slug, nil
}

// DeleteRecipe removes a recipe by id or slug.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.del(ctx, "api/recipes/"+id)
}

// FetchMealplan returns the household's meal-plan entries.
func (c *Client) FetchMealplan(ctx context.Context) ([]model.MealplanEntry, error) {
	var resp pagedItems[model.MealplanEntry]
	if err := c.get(ctx, "api/households/mealplans", &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddMealplanEntry plans a recipe or a free-text title for a date and
// slot. Exactly one of recipeID and title should be set; when recipeID
// is present the title is dropped, matching the server contract.
func (c *Client) AddMealplanEntry(ctx context.Context, date, slot string, recipeID, title *string) error {
	payload := mealplanPayload{
		Date:      date,
		EntryType: slot,
		RecipeID:  recipeID,
	}
	if recipeID == nil {
		payload.Title = title
	}

	return c.post(ctx, "api/households/mealplans", payload, nil)
}

// DeleteMealplanEntry removes one meal-plan entry.
func (c *Client) DeleteMealplanEntry(ctx context.Context, id int) error {
	return c.del(ctx, fmt.Sprintf("api/households/mealplans/%d", id))
}

// RecipeImageURL renders the media URL for a recipe image id, for
// callers that hand images to an external viewer.
func (c *Client) RecipeImageURL(imageID string) string {
	return c.baseURL + "/api/media/recipes/" + url.PathEscape(imageID)
}
