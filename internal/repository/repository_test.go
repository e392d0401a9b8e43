package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageOf(t *testing.T) {
	cases := []struct {
		name         string
		number, size int
		want         Page
	}{
		{"first page", 1, 20, Page{Limit: 20, Offset: 0}},
		{"third page", 3, 10, Page{Limit: 10, Offset: 20}},
		{"oversized page clamps before offset", 2, 1000, Page{Limit: maxLimit, Offset: maxLimit}},
		{"defaults", 0, 0, Page{Limit: defaultLimit, Offset: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, PageOf(tc.number, tc.size))
		})
	}
}

func TestPageNormalize(t *testing.T) {
	require.Equal(t, Page{Limit: maxLimit, Offset: 0}, Page{Limit: 500, Offset: -3}.normalize())
}
