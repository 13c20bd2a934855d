package score

import (
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// Point is a single geographic coordinate in a route. No bounds validation
// is applied; any finite value is accepted.
type Point struct {
	Lat float64
	Lng float64
}

// RawRoute is one undecoded route from the request payload. Point decoding
// is deferred so that a malformed route cannot fail its siblings in the
// batch.
type RawRoute json.RawMessage

type rawPoint struct {
	Lat *flexFloat `json:"lat"`
	Lng *flexFloat `json:"lng"`
}

// flexFloat accepts a JSON number or a numeric string. Some callers send
// coordinates as strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	if len(b) > 1 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexFloat(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}

// DecodeRoutes parses the request payload: a JSON array of routes, each an
// array of {lat, lng} objects. Only a document that is not exactly one
// array at the top level fails here; route contents are validated later,
// per route.
func DecodeRoutes(r io.Reader) ([]RawRoute, error) {
	dec := json.NewDecoder(r)

	var batch []json.RawMessage
	if err := dec.Decode(&batch); err != nil {
		return nil, errors.Wrap(ErrDecode, err.Error())
	}
	if batch == nil {
		return nil, errors.Wrap(ErrDecode, "payload is not an array")
	}

	// the payload must be a single document
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.Wrap(ErrDecode, "trailing data after routes array")
	}

	routes := make([]RawRoute, len(batch))
	for i, b := range batch {
		routes[i] = RawRoute(b)
	}
	return routes, nil
}

// Points decodes the route's coordinates, failing on the first point that
// is not an object with numerically convertible lat and lng.
func (rr RawRoute) Points() ([]Point, error) {
	var raw []rawPoint
	if err := json.Unmarshal(json.RawMessage(rr), &raw); err != nil {
		return nil, errors.Wrap(ErrField, err.Error())
	}
	pts := make([]Point, 0, len(raw))
	for i, p := range raw {
		if p.Lat == nil || p.Lng == nil {
			return nil, errors.Wrapf(ErrField, "point %d: missing lat or lng", i)
		}
		pts = append(pts, Point{Lat: float64(*p.Lat), Lng: float64(*p.Lng)})
	}
	return pts, nil
}
