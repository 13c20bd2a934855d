package feature

import "time"

// Columns pins the feature contract the shipped classifier was trained
// against. Order and count must match the model and the fitted scaler
// exactly; a vector built in any other order produces meaningless
// predictions.
var Columns = []string{"lat", "lng", "month", "hour", "minute"}

// NumColumns is the runtime feature count.
const NumColumns = 5

// Vector builds one feature row for a coordinate at the given invocation
// time. Every point in a single run shares the same timestamp.
func Vector(lat, lng float64, at time.Time) []float64 {
	return []float64{
		lat,
		lng,
		float64(int(at.Month())),
		float64(at.Hour()),
		float64(at.Minute()),
	}
}
