package metadata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DMSToDecimal converts degrees/minutes/seconds to decimal degrees.
// ref "S" or "W" negates the result.
func DMSToDecimal(deg, min, sec float64, ref string) float64 {
	v := deg + min/60 + sec/3600
	switch strings.ToUpper(strings.TrimSpace(ref)) {
	case "S", "W":
		return -v
	}
	return v
}

// DecimalToDMS is the inverse of DMSToDecimal. posRef/negRef are "N"/"S" or "E"/"W".
func DecimalToDMS(v float64, posRef, negRef string) (deg, min, sec float64, ref string) {
	ref = posRef
	if v < 0 {
		ref = negRef
		v = -v
	}
	deg = math.Floor(v)
	rem := (v - deg) * 60
	min = math.Floor(rem)
	sec = (rem - min) * 60
	return deg, min, sec, ref
}

// parseRationalText parses "n/d" or a plain decimal.
func parseRationalText(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("invalid rational '%s'", s)
		}
		return n / d, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseDMSText parses the formatted forms tag libraries print, e.g.
// "[37/1 33/1 5994/100]", "37/1,33/1,5994/100" or "37.5665".
func parseDMSText(s string) ([]float64, error) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty coordinate")
	}
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := parseRationalText(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// componentsToDecimal pads a scalar [v] to [v, 0, 0].
func componentsToDecimal(parts []float64, ref string) (float64, error) {
	var d, m, s float64
	switch len(parts) {
	case 0:
		return 0, fmt.Errorf("no coordinate components")
	case 1:
		d = parts[0]
	case 2:
		d, m = parts[0], parts[1]
	default:
		d, m, s = parts[0], parts[1], parts[2]
	}
	v := DMSToDecimal(d, m, s, ref)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid coordinate")
	}
	return v, nil
}
