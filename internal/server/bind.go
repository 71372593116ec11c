package server

import (
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gorilla/schema"
	"github.com/leebenson/conform"
)

var schemaDecoder *schema.Decoder

func init() {
	schemaDecoder = schema.NewDecoder()
	schemaDecoder.IgnoreUnknownKeys(true)
}

// BindQueryString binds the request's query string with the
// given pointer to a struct of data.
// String fields tagged with "conform" are normalized and, if the
// destination implements Validate(), it runs the validation as well.
func (s *Server) BindQueryString(r *http.Request, dst interface{}) *Message {
	if err := schemaDecoder.Decode(dst, r.URL.Query()); err != nil {
		return &Message{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		}
	}
	conform.Strings(dst)

	v, ok := dst.(validation.Validatable)
	if !ok {
		return nil
	}

	return s.Validate(v)
}

// Validate runs the validation on a given destination data and returns
// a formatted message with the encountered errors, if any.
func (s *Server) Validate(data interface{}) *Message {
	err := validation.Validate(data)
	if err == nil {
		return nil
	}

	verr, ok := err.(validation.Errors)
	if !ok {
		return &Message{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	elist := []Error{}
	for k, v := range verr {
		elist = append(elist, Error{
			Location: k,
			Error:    v.Error(),
		})
	}
	sort.Slice(elist, func(i, j int) bool {
		return elist[i].Location < elist[j].Location
	})

	return &Message{
		Status:  http.StatusBadRequest,
		Message: "Invalid input data",
		Errors:  elist,
	}
}
