package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/afteryou/internal/client/router"
)

func TestRouteCommand_EveryRoute(t *testing.T) {
	for _, rt := range router.Routes {
		assert.NotEmpty(t, routeCommand(rt, rt.Pattern), rt.Pattern)
	}

	route, ok := router.Match("/messages/42/edit")
	require.True(t, ok)
	assert.Equal(t, []string{"messages", "edit", "42"}, routeCommand(route, "/messages/42/edit"))
}

func TestLinkPath(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{link: "/chain/abc", want: "/chain/abc"},
		{link: "https://afteryou.example/inheritance/tok-1", want: "/inheritance/tok-1"},
		{link: "http://localhost:3000", want: "/"},
		{link: "messages", want: "messages"},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			assert.Equal(t, tt.want, linkPath(tt.link))
		})
	}
}
