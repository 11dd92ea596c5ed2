package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/CuongMinh72/bakery-sys/internal/app"
	_ "github.com/CuongMinh72/bakery-sys/internal/testing/guard"
)

func TestMainSkipsInTestMode(t *testing.T) {
	app.RefreshTestMode()
	require.True(t, app.InTestMode())
	main()
}
