package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/afteryou/internal/client/models"
	"github.com/dmitrijs2005/afteryou/internal/client/router"
	"github.com/dmitrijs2005/afteryou/internal/client/services"
)

func newChainCmd(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Read, extend and share message chains",
	}

	view := &cobra.Command{
		Use:   "view <token>",
		Short: "Read the message a chain link points to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			m, err := a.chain(args[0]).Load(cmd.Context())
			if err != nil {
				return err
			}
			a.printChainMessage(*m)
			return nil
		},
	}

	history := &cobra.Command{
		Use:   "history <token>",
		Short: "Show every generation of a chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			h, err := a.chain(args[0]).History(cmd.Context())
			if err != nil {
				return err
			}
			for i, m := range h {
				if i > 0 {
					a.println()
				}
				a.printChainMessage(m)
			}
			return nil
		},
	}

	var ext models.ChainExtension
	extend := &cobra.Command{
		Use:   "extend <token>",
		Short: "Add your message and pass the chain on",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			var err error
			if ext.SenderName, err = a.ask(ext.SenderName, "Your name"); err != nil {
				return err
			}
			if ext.RecipientEmail, err = a.ask(ext.RecipientEmail, "Recipient email"); err != nil {
				return err
			}
			if ext.Content, err = a.askMultiline(ext.Content, "Your message"); err != nil {
				return err
			}
			if err := a.chain(args[0]).Extend(cmd.Context(), ext); err != nil {
				return err
			}
			a.success("Chain passed on to " + ext.RecipientEmail)
			return nil
		},
	}
	extend.Flags().StringVar(&ext.SenderName, "name", "", "your name")
	extend.Flags().StringVar(&ext.RecipientEmail, "to", "", "recipient email")
	extend.Flags().StringVarP(&ext.Content, "content", "c", "", "your message")

	var copyN int
	mine := &cobra.Command{
		Use:   "mine",
		Short: "List the chains you started",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := r.mustApp()
			c := a.chain("")
			chains, err := c.UserChains(cmd.Context())
			if err != nil {
				return err
			}
			if len(chains) == 0 {
				a.println("You have not started any chains.")
				return nil
			}

			rows := make([][]string, 0, len(chains))
			for i, s := range chains {
				rows = append(rows, []string{
					strconv.Itoa(i + 1), s.Title,
					strconv.Itoa(s.CurrentGeneration), strconv.Itoa(s.TotalMessages),
					s.LatestSender, a.when(s.LastUpdated), c.ShareLink(s),
				})
			}
			a.println(renderTable([]string{"#", "Title", "Generation", "Messages", "Latest sender", "Updated", "Link"}, rows))

			if copyN > 0 {
				if copyN > len(chains) {
					return services.ErrNotFound
				}
				link := c.ShareLink(chains[copyN-1])
				if err := copyToClipboard(link); err != nil {
					return err
				}
				a.success("Copied " + link)
			}
			return nil
		},
	}
	mine.Flags().IntVar(&copyN, "copy", 0, "copy the share link of chain number N to the clipboard")

	cmd.AddCommand(
		routed(view, router.ChainLink),
		routed(history, router.ChainLink),
		routed(extend, router.ChainLink),
		routed(mine, router.Chains),
	)
	return cmd
}

func (a *App) chain(token string) *services.Chain {
	return services.NewChain(a.backend, a.cfg.WebURL, token)
}

func (a *App) printChainMessage(m models.ChainMessage) {
	a.title(m.Title)
	a.field("Generation", strconv.Itoa(m.Generation))
	if m.SenderName != "" {
		a.field("From", m.SenderName)
	}
	a.field("Written", a.when(m.CreatedAt))
	a.println(m.Content)
}
