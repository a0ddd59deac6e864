package utils

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

// PathInt64 возвращает числовой path-параметр
func PathInt64(c echo.Context, name string) (int64, error) {
	value, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("параметр %s должен быть числом", name)
	}
	return value, nil
}

// QueryInt возвращает числовой query-параметр или значение по умолчанию
func QueryInt(c echo.Context, name string, defaultValue int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("параметр %s должен быть числом", name)
	}
	return value, nil
}

// QueryBool возвращает булев query-параметр или значение по умолчанию
func QueryBool(c echo.Context, name string, defaultValue bool) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("параметр %s должен быть булевым", name)
	}
	return value, nil
}
