package img

import (
	"fmt"
	"net/http"
)

// Fetch loads a remote image with the given loader. When client is
// nil, http.DefaultClient is used.
func Fetch(src string, client *http.Client, loader string, maxPixels int) (Image, error) {
	if client == nil {
		client = http.DefaultClient
	}

	if src == "" {
		return nil, fmt.Errorf("no image URL")
	}

	rsp, err := client.Get(src)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("invalid response status (%d)", rsp.StatusCode)
	}

	return New(loader, rsp.Body, maxPixels)
}
