package forecast

// Method is the closed set of supported forecasting methods.
type Method int

const (
	TwentyFourHour Method = iota
	LastDay
	ThreeMonth
	OneYear
	ExponentialSmoothing
)

var methodNames = map[Method]string{
	TwentyFourHour:       "24 Hour Forecast",
	LastDay:              "Last Day Pattern",
	ThreeMonth:           "3 Month Prediction",
	OneYear:              "1 Year Forecast",
	ExponentialSmoothing: "Exponential Smoothing",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return methodNames[TwentyFourHour]
}

// ParseMethod maps a wire string to a Method. Unknown strings fall back to
// the 24-hour forecast; the second return reports whether the name was known.
func ParseMethod(s string) (Method, bool) {
	for m, name := range methodNames {
		if s == name {
			return m, true
		}
	}
	return TwentyFourHour, false
}

// Periods returns the number of points the method produces.
func (m Method) Periods() int {
	switch m {
	case ThreeMonth:
		return 90
	case OneYear:
		return 365
	default:
		return 24
	}
}

// Daily reports whether points represent whole days rather than hours.
func (m Method) Daily() bool {
	return m == ThreeMonth || m == OneYear
}
