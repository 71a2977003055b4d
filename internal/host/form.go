package host

import (
	"encoding/json"
	"net/http"

	pkg "github.com/peteski22/dynparam/pkg/contract/parameter"
)

// Ensure requestForm implements parameter.Form.
var _ pkg.Form = (*requestForm)(nil)

// requestForm exposes an HTTP request to parameter definitions.
type requestForm struct {
	r *http.Request
}

// newRequestForm parses the query string and, for form posts, the body of r.
func newRequestForm(r *http.Request) (*requestForm, error) {
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return &requestForm{r: r}, nil
}

// ParameterValues implements parameter.Form.
func (f *requestForm) ParameterValues(name string) []string {
	values, ok := f.r.Form[name]
	if !ok {
		return nil
	}
	return values
}

// BindJSON implements parameter.Form.
func (f *requestForm) BindJSON(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
