package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRegistered(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var openapi struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &openapi))

	assert.Equal(t, "BabyBloom Predictor API", openapi.Info.Title)
	for _, path := range []string{
		"/api/v1/predict",
		"/api/v1/strategies",
		"/api/v1/advice",
		"/api/v1/features/contractions",
		"/api/v1/contact",
		"/healthz",
	} {
		assert.Contains(t, openapi.Paths, path)
	}
}
