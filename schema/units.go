package schema

import (
	"fmt"
	"strings"
	"unicode"
)

// Unit is a canonicalised unit expression, e.g. "m", "deg", "W/m2".
// The zero value is Dimensionless.
type Unit string

// Dimensionless is the unit of pure numbers. Schemas spell it "unitless"
// or "dimensionless".
const Dimensionless Unit = ""

// String returns the canonical spelling, or "dimensionless" for the zero
// unit.
func (u Unit) String() string {
	if u == Dimensionless {
		return "dimensionless"
	}
	return string(u)
}

// unitAliases maps the unit spellings observatory schemas use to their
// canonical symbols.
var unitAliases = map[string]string{
	"second": "s", "sec": "s", "s": "s",
	"millisecond": "ms", "ms": "ms",
	"microsecond": "us", "us": "us",
	"nanosecond": "ns", "ns": "ns",
	"minute": "min", "min": "min",
	"hour": "h", "h": "h",
	"day": "d", "d": "d",

	"meter": "m", "metre": "m", "m": "m",
	"centimeter": "cm", "cm": "cm",
	"millimeter": "mm", "mm": "mm",
	"micrometer": "um", "micron": "um", "um": "um",
	"nanometer": "nm", "nm": "nm",
	"kilometer": "km", "km": "km",
	"angstrom": "Angstrom",

	"gram": "g", "g": "g",
	"kilogram": "kg", "kg": "kg",

	"ampere": "A", "amp": "A", "A": "A",
	"volt": "V", "V": "V",
	"watt": "W", "W": "W",
	"joule": "J", "J": "J",
	"newton": "N", "N": "N",
	"pascal": "Pa", "Pa": "Pa",
	"hertz": "Hz", "Hz": "Hz",
	"kelvin": "K", "K": "K",
	"torr":    "Torr",
	"bar":     "bar",
	"deg_C":   "deg_C",
	"Celsius": "deg_C",

	"degree": "deg", "deg": "deg",
	"arcminute": "arcmin", "arcmin": "arcmin",
	"arcsecond": "arcsec", "arcsec": "arcsec",
	"radian": "rad", "rad": "rad",

	"percent": "%", "%": "%",
	"count": "ct", "ct": "ct",
	"electron": "electron",
	"adu":      "adu",
	"pixel":    "pix", "pix": "pix",
	"byte": "byte",
	"bit":  "bit",
	"dB":   "dB", "decibel": "dB",
}

// ParseUnit canonicalises a unit string from topic metadata.
//
// Plain names and simple compound expressions built from '*', '/', and
// trailing integer exponents are accepted ("meter/second", "W/m2").
// "unitless" and "dimensionless" map to Dimensionless. Anything else is an
// ErrUnknownUnit naming the offending atom.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "unitless" || s == "dimensionless" {
		return Dimensionless, nil
	}

	var out strings.Builder
	atom := strings.Builder{}
	flush := func() error {
		if atom.Len() == 0 {
			return fmt.Errorf("%w: empty term in %q", ErrUnknownUnit, s)
		}
		canon, err := canonicalAtom(atom.String(), s)
		if err != nil {
			return err
		}
		out.WriteString(canon)
		atom.Reset()
		return nil
	}
	for _, r := range s {
		switch r {
		case '*', '/':
			if err := flush(); err != nil {
				return Dimensionless, err
			}
			out.WriteRune(r)
		default:
			atom.WriteRune(r)
		}
	}
	if err := flush(); err != nil {
		return Dimensionless, err
	}
	return Unit(out.String()), nil
}

// canonicalAtom canonicalises one name-with-optional-exponent term.
// Exponents may be negative, as in "s-1".
func canonicalAtom(atom, full string) (string, error) {
	name := strings.TrimRightFunc(atom, unicode.IsDigit)
	if strings.HasSuffix(name, "-") && len(name) < len(atom) {
		name = name[:len(name)-1]
	}
	exp := atom[len(name):]
	if name == "" {
		return "", fmt.Errorf("%w: %q in %q", ErrUnknownUnit, atom, full)
	}
	canon, ok := unitAliases[name]
	if !ok {
		return "", fmt.Errorf("%w: %q in %q", ErrUnknownUnit, name, full)
	}
	return canon + exp, nil
}
