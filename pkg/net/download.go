package net

import (
	"io"
	"net/http"
	"os"

	"github.com/pkg/errors"
)

// ErrorURLNotFound is returned when the artifact store has no file at the
// requested URL.
var ErrorURLNotFound = errors.New("URL not found")

func getResp(url string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating HTTP Get request")
	}
	req.Header.Set("User-Agent", clientAgent)

	return GetHTTPClient().Do(req)
}

// Download fetches url and writes the body to filepath.
func Download(url string, filepath string) (retErr error) {
	out, err := os.Create(filepath)
	if err != nil {
		return errors.Wrapf(err, "error creating file: %s", filepath)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && retErr == nil {
			retErr = errors.Wrap(cerr, "closing file")
		}
	}()

	resp, err := getResp(url)
	if err != nil {
		return errors.Wrapf(err, "error downloading: %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrorURLNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("error downloading file (status: %d - %s): %s", resp.StatusCode, resp.Status, url)
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		return errors.Wrap(err, "error saving downloaded content to file")
	}

	return nil
}
