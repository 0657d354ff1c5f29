package swagger

import (
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	apicontract "github.com/tuanvumaihuynh/productstack/api-contract"
)

const (
	// swaggerURL is the URL path where the Swagger UI will be served
	swaggerURL = "/docs"

	// swaggerSpecURL serves the document as written
	swaggerSpecURL = "/docs/openapi.yml"

	// swaggerJSONURL serves the same document resolved and encoded as JSON
	swaggerJSONURL = "/docs/openapi.json"
)

// Load parses and validates the embedded OpenAPI document.
func Load() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(apicontract.GetSpecBytes())
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}

	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}

	return doc, nil
}

// Register serves the Swagger UI and the API document on r. It fails when the
// embedded document is invalid.
func Register(r chi.Router) error {
	doc, err := Load()
	if err != nil {
		return err
	}

	jsonBytes, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode openapi document: %w", err)
	}

	templateBytes := []byte(getTemplate(swaggerJSONURL))
	r.Get(swaggerURL, serve("text/html; charset=utf-8", templateBytes))
	r.Get(swaggerSpecURL, serve("application/yaml", apicontract.GetSpecBytes()))
	r.Get(swaggerJSONURL, serve("application/json", jsonBytes))

	return nil
}

func serve(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write(body)
	}
}

// getTemplate returns the HTML template for Swagger UI
func getTemplate(specPath string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <meta name="description" content="productstack API" />
  <title>productstack API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.29.3/swagger-ui-bundle.js" crossorigin></script>
<script>
  window.onload = () => {
    window.ui = SwaggerUIBundle({
      url: '%s',
      dom_id: '#swagger-ui',
      deepLinking: true,
      withCredentials: true,
      persistAuthorization: true,
    });
  };
</script>
</body>
</html>
`, specPath)
}
