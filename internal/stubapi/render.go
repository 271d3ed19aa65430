package stubapi

import "strings"

// RenderTemplate substitutes {{key}} placeholders. Unknown placeholders are
// left in place; the real generation pipeline is the collaborator's concern
// and deliberately not reproduced here.
func RenderTemplate(template string, data map[string]string) string {
	result := template
	for k, v := range data {
		result = strings.ReplaceAll(result, "{{"+k+"}}", v)
	}
	return result
}
