package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumusha/remitflow/core"
	"github.com/kumusha/remitflow/tools"
)

func TestToAPIToolsCarriesRequiredFields(t *testing.T) {
	def, ok := tools.ByName("execute_transaction")
	require.True(t, ok)

	params := toAPITools([]core.ToolDefinition{def})
	require.Len(t, params, 1)
	assert.ElementsMatch(t, []string{"transaction_id", "payment_method_code"},
		params[0].OfTool.InputSchema.Required)
}

// Definitions reach the agent through the tool server's RPC, which decodes
// InputSchema as plain JSON maps. The required list must survive that trip.
func TestToAPIToolsCarriesRequiredFieldsAfterWireDecode(t *testing.T) {
	def, ok := tools.ByName("execute_transaction")
	require.True(t, ok)

	data, err := json.Marshal(def.InputSchema)
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	def.InputSchema = wire

	params := toAPITools([]core.ToolDefinition{def})
	require.Len(t, params, 1)
	assert.ElementsMatch(t, []string{"transaction_id", "payment_method_code"},
		params[0].OfTool.InputSchema.Required)
}

func TestRequiredFieldsAbsent(t *testing.T) {
	assert.Nil(t, requiredFields(map[string]interface{}{"type": "object"}))
}
