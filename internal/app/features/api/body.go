package api

import (
	"errors"
	"io"
	"net/http"
)

var errBodyTooLarge = errors.New("request body too large")

// readBody reads a capped JSON body.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, errBodyTooLarge
		}
		return nil, err
	}
	return data, nil
}
