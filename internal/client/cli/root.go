package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/api"
	"github.com/dmitrijs2005/afteryou/internal/client/config"
	"github.com/dmitrijs2005/afteryou/internal/client/router"
)

// Command annotations.
const (
	// annotationRoute names the router pattern that guards a command.
	annotationRoute = "afteryou/route"
	// annotationApp is set on commands that need the App but no route.
	annotationApp = "afteryou/app"
	// annotationNewConfig lets --config name a file that does not exist yet.
	annotationNewConfig = "afteryou/new-config"
)

var (
	ErrNotLoggedIn     = errors.New("you are not logged in; run 'afteryou login' first")
	ErrAlreadyLoggedIn = errors.New("you are already logged in; run 'afteryou logout' first")
	ErrForbidden       = errors.New("this command requires an admin account")
	ErrSessionLoading  = errors.New("session is still loading")
)

// runner is shared by every command tree built for one process, including
// the trees the shell builds per input line.
type runner struct {
	factory Factory
	in      io.Reader
	reader  *bufio.Reader
	out     io.Writer
	errOut  io.Writer

	cfg     *config.Config
	app     *App
	inShell bool
}

// Execute runs the command line args and closes whatever the App opened.
// Errors are printed to errOut as the user-facing alert and returned.
func Execute(ctx context.Context, factory Factory, args []string, in io.Reader, out, errOut io.Writer) error {
	r := &runner{factory: factory, in: in, reader: bufio.NewReader(in), out: out, errOut: errOut}
	defer func() {
		if r.app != nil {
			_ = r.app.Close()
		}
	}()
	return r.execute(ctx, args)
}

func (r *runner) execute(ctx context.Context, args []string) error {
	err := r.run(ctx, args)
	if err != nil {
		fmt.Fprintln(r.errOut, errorStyle.Render(api.UserMessage(err)))
	}
	return err
}

// run executes args on a fresh command tree without reporting the error.
func (r *runner) run(ctx context.Context, args []string) error {
	root := newRootCmd(r)
	root.SetArgs(args)
	root.SetIn(r.in)
	root.SetOut(r.out)
	root.SetErr(r.errOut)
	return root.ExecuteContext(ctx)
}

func newRootCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "afteryou",
		Short: "AfterYou keeps your legacy messages and digital locker.",
		Long: `AfterYou delivers your messages and hands your digital locker to the
people you choose once you stop checking in.

Run "afteryou shell" for an interactive session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.prepare(cmd)
		},
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newLoginCmd(r),
		newRegisterCmd(r),
		newLogoutCmd(r),
		newWhoamiCmd(r),
		newDashboardCmd(r),
		newSystemCmd(r),
		newMessagesCmd(r),
		newCheckInCmd(r),
		newLockerCmd(r),
		newInheritCmd(r),
		newChainCmd(r),
		newExportCmd(r),
		newConfigCmd(r),
		newOpenCmd(r),
	)
	if !r.inShell {
		cmd.AddCommand(newShellCmd(r))
	}
	return cmd
}

// routed marks cmd as guarded by route.
func routed(cmd *cobra.Command, route router.Route) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[annotationRoute] = route.Pattern
	return cmd
}

func routeOf(cmd *cobra.Command) (router.Route, bool) {
	pattern, ok := cmd.Annotations[annotationRoute]
	if !ok {
		return router.Route{}, false
	}
	for _, rt := range router.Routes {
		if rt.Pattern == pattern {
			return rt, true
		}
	}
	return router.Route{}, false
}

// prepare loads the config, builds the App when cmd needs it and applies
// the route guard.
func (r *runner) prepare(cmd *cobra.Command) error {
	if err := r.loadConfig(cmd); err != nil {
		return err
	}

	route, guarded := routeOf(cmd)
	if !guarded && cmd.Annotations[annotationApp] == "" {
		return nil
	}

	app, err := r.ensureApp(cmd.Context())
	if err != nil {
		return err
	}
	if !guarded {
		return nil
	}
	if route.Access != router.Open {
		if err := app.bootstrap(cmd.Context()); err != nil {
			return err
		}
	}
	return decisionErr(router.Guard(app.session.State(), route))
}

func (r *runner) loadConfig(cmd *cobra.Command) error {
	if r.cfg != nil {
		return nil
	}
	load := config.LoadConfig
	if cmd.Annotations[annotationNewConfig] != "" {
		load = config.LoadConfigForWrite
	}
	cfg, err := load(cmd.Flags())
	if err != nil {
		return err
	}
	r.cfg = cfg
	return nil
}

func (r *runner) ensureApp(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	env, err := r.factory(ctx, r.cfg)
	if err != nil {
		return nil, err
	}
	if env.Config == nil {
		env.Config = r.cfg
	}
	r.app = newApp(env, r.reader, r.out)
	return r.app, nil
}

func decisionErr(d router.Decision) error {
	switch d {
	case router.Allow:
		return nil
	case router.Wait:
		return ErrSessionLoading
	case router.RedirectLogin:
		return ErrNotLoggedIn
	case router.RedirectDashboard:
		return ErrAlreadyLoggedIn
	}
	return ErrForbidden
}

// allowed reports whether the guard admits cmd in the current session.
// Commands without a route are always allowed.
func (r *runner) allowed(cmd *cobra.Command) bool {
	route, ok := routeOf(cmd)
	if !ok || r.app == nil {
		return true
	}
	return router.Guard(r.app.session.State(), route) == router.Allow
}

// mustApp returns the App prepared for the running command.
func (r *runner) mustApp() *App {
	if r.app == nil {
		panic("cli: command ran without an App; annotate it")
	}
	return r.app
}
