package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Фид Breez отдает числа то числом, то строкой, то пустой строкой или null.

type FlexInt int

type FlexFloat float64

var leadingNumberRe = regexp.MustCompile(`^-?\d+(?:[.,]\d+)?`)

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	v, err := parseLooseNumber(data)
	if err != nil {
		return err
	}
	*f = FlexInt(int(v))
	return nil
}

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	v, err := parseLooseNumber(data)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

func (f FlexInt) String() string {
	return strconv.Itoa(int(f))
}

func parseLooseNumber(data []byte) (float64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("false")) {
		return 0, nil
	}
	if bytes.Equal(data, []byte("true")) {
		return 1, nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, fmt.Errorf("invalid numeric string %s: %w", data, err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		// "10+", ">5", "1 200.50" и прочее творчество поставщика
		s = strings.ReplaceAll(s, " ", "")
		s = strings.TrimLeft(s, "<>=~")
		m := leadingNumberRe.FindString(s)
		if m == "" {
			return 0, nil
		}
		return strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return 0, fmt.Errorf("invalid number %s: %w", data, err)
	}
	return v, nil
}
