package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhaas/mealie-term/internal/mealie"
)

func TestManualPayload(t *testing.T) {
	fb := formBindings{
		name:         "  Pfannkuchen ",
		description:  "schnell gemacht",
		ingredients:  "2 Eier\n\n250 ml Milch\n  125 g Mehl  \n",
		instructions: "Alles verrühren\nAusbacken\n",
	}

	payload, err := manualPayload(fb)
	require.NoError(t, err)

	assert.Equal(t, "Pfannkuchen", payload.Name)
	assert.Equal(t, "schnell gemacht", payload.Description)
	require.Len(t, payload.Ingredients, 3)
	assert.Equal(t, "250 ml Milch", payload.Ingredients[1].Note)
	require.Len(t, payload.Instructions, 2)
	assert.Equal(t, "Ausbacken", payload.Instructions[1].Text)
}

func TestManualPayloadValidation(t *testing.T) {
	var verr *mealie.ValidationError

	_, err := manualPayload(formBindings{ingredients: "2 Eier"})
	assert.ErrorAs(t, err, &verr, "missing name")

	_, err = manualPayload(formBindings{name: "Toast"})
	assert.ErrorAs(t, err, &verr, "missing ingredients")
}
