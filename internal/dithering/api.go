package dithering

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/lithammer/shortuuid/v3"

	"github.com/ditherit/ditherit/configs"
	"github.com/ditherit/ditherit/internal/server"
	"github.com/ditherit/ditherit/pkg/dither"
	"github.com/ditherit/ditherit/pkg/img"

	_ "github.com/ditherit/ditherit/pkg/img/native" // native image processor
)

var errNoImage = errors.New("no image in request")

// ditherAPI is the base dithering API router.
type ditherAPI struct {
	chi.Router
	srv *server.Server
}

type algorithmItem struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// Routes adds the dithering API routes to the server.
func Routes(s *server.Server) {
	s.AddRoute("/api", newDitherAPI(s))
}

// newDitherAPI returns a ditherAPI with all the routes
// set up.
func newDitherAPI(s *server.Server) *ditherAPI {
	r := chi.NewRouter()
	api := &ditherAPI{r, s}

	r.Get("/health", api.health)
	r.Get("/algorithms", api.algorithmList)
	r.Get("/matrices", api.matrixList)
	r.Mount("/sys", s.SysRoutes())
	r.With(server.LimitBody(configs.Config.Server.MaxUploadSize)).
		Post("/dither", api.ditherImage)

	return api
}

func (api *ditherAPI) health(w http.ResponseWriter, r *http.Request) {
	api.srv.TextMessage(w, r, http.StatusOK, "ok")
}

func (api *ditherAPI) algorithmList(w http.ResponseWriter, r *http.Request) {
	res := []algorithmItem{}
	for _, a := range dither.Algorithms() {
		res = append(res, algorithmItem{
			Name:  a.String(),
			Label: a.Label(),
			Kind:  string(a.Kind()),
		})
	}

	api.srv.Render(w, r, http.StatusOK, res)
}

func (api *ditherAPI) matrixList(w http.ResponseWriter, r *http.Request) {
	api.srv.Render(w, r, http.StatusOK, dither.ThresholdMaps())
}

func (api *ditherAPI) ditherImage(w http.ResponseWriter, r *http.Request) {
	f := &ditherForm{}
	if msg := api.srv.BindQueryString(r, f); msg != nil {
		api.srv.Message(w, r, msg)
		return
	}

	p, err := configs.Pipeline()
	if err != nil {
		api.srv.Error(w, r, err)
		return
	}
	f.apply(&p)

	data, err := readUpload(r)
	if err != nil {
		var mbe *http.MaxBytesError
		switch {
		case errors.As(err, &mbe):
			api.srv.TextMessage(w, r, http.StatusRequestEntityTooLarge, "image is too big")
		case errors.Is(err, errNoImage):
			api.srv.TextMessage(w, r, http.StatusBadRequest, err.Error())
		default:
			api.srv.Error(w, r, err)
		}
		return
	}

	im, err := img.New(configs.Config.Images.Processor, bytes.NewReader(data), configs.Config.Images.MaxPixels)
	if errors.Is(err, img.ErrTooBig) {
		api.srv.TextMessage(w, r, http.StatusRequestEntityTooLarge, err.Error())
		return
	}
	if err != nil {
		api.srv.Log(r).WithError(err).Warn("cannot decode image")
		api.srv.TextMessage(w, r, http.StatusUnprocessableEntity, "cannot decode image")
		return
	}
	defer im.Close()

	if err = p.Run(im); err != nil {
		if errors.Is(err, dither.ErrContractViolation) {
			api.srv.TextMessage(w, r, http.StatusBadRequest, err.Error())
			return
		}
		api.srv.Error(w, r, err)
		return
	}

	format := f.Format
	if format == "" {
		format = configs.Config.Images.Format
	}
	body, format, err := im.Encode(format)
	if err != nil {
		api.srv.Error(w, r, err)
		return
	}

	api.srv.Log(r).WithField("algorithm", p.Dither.Algorithm).
		WithField("size", fmt.Sprintf("%dx%d", im.Width(), im.Height())).
		Debug("image dithered")

	w.Header().Set(server.AlgorithmHeader, p.Dither.Algorithm.String())
	filename := fmt.Sprintf("dithered-%s%s", shortuuid.New(), img.Extension(format))
	api.srv.Attachment(w, r, img.ContentType(format), filename, body)
}

// readUpload returns the image sent either as the "image" field of a
// multipart form or as the raw request body.
func readUpload(r *http.Request) ([]byte, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt != "multipart/form-data" {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errNoImage
		}
		return data, nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return nil, errNoImage
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() != "image" {
			part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return nil, errNoImage
		}
		return data, nil
	}
}
