package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/router"
)

// routeCommand returns the command line that shows route for path.
func routeCommand(route router.Route, path string) []string {
	p := route.Params(path)
	switch route {
	case router.Login:
		return []string{"login"}
	case router.Register:
		return []string{"register"}
	case router.Dashboard:
		return []string{"dashboard"}
	case router.Messages:
		return []string{"messages", "list"}
	case router.MessageCreate:
		return []string{"messages", "create"}
	case router.MessageDetail:
		return []string{"messages", "show", p["id"]}
	case router.MessageEdit:
		return []string{"messages", "edit", p["id"]}
	case router.Chains:
		return []string{"chain", "mine"}
	case router.Settings:
		return []string{"checkin", "status"}
	case router.DigitalLocker:
		return []string{"locker", "show"}
	case router.System:
		return []string{"system"}
	case router.InheritanceLink:
		return []string{"inherit", p["token"]}
	case router.ChainLink:
		return []string{"chain", "view", p["token"]}
	}
	return nil
}

// linkPath accepts a web address, such as the link in a delivery email, or
// a bare path.
func linkPath(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Scheme == "" {
		return link
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

func newOpenCmd(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "open <path|link>",
		Short: "Run the command behind a web path or link",
		Example: `  afteryou open /messages/42
  afteryou open https://afteryou.example/chain/abc123`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := linkPath(args[0])
			route, ok := router.Match(path)
			if !ok {
				return fmt.Errorf("no page at %q", path)
			}
			return r.run(cmd.Context(), routeCommand(route, path))
		},
	}
}
