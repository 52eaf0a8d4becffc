package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/opsdesk/deskctl/internal/api"
	"github.com/opsdesk/deskctl/internal/tui"
)

var ticketsCmd = &cobra.Command{
	Use:   "tickets",
	Short: "List and create support tickets",
	Long: `List and create support tickets from the command line.

For the interactive experience, including ticket details and the
management screens, run 'deskctl ui'.

Examples:
  deskctl tickets list
  deskctl tickets list --mine --status open
  deskctl tickets create --title "Printer jams" --priority high`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// ticketsListCmd lists tickets
var ticketsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}

		status, _ := cmd.Flags().GetString("status")
		mine, _ := cmd.Flags().GetBool("mine")
		departmentID, _ := cmd.Flags().GetInt("department")
		page, _ := cmd.Flags().GetInt("page")

		res := api.NewTickets(env.client).List(cmd.Context(), api.TicketFilter{
			Status:       status,
			Mine:         mine,
			DepartmentID: departmentID,
			Page:         page,
		})
		if !res.OK {
			return fmt.Errorf("could not list tickets: %s", res.Message)
		}

		list := res.Data
		if len(list.Tickets) == 0 {
			fmt.Println("No tickets.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPRIORITY\tDEPARTMENT")
		for _, ticket := range list.Tickets {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
				ticket.ID, ticket.Title, ticket.Status, ticket.Priority, ticket.DepartmentName)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if list.TotalCount > len(list.Tickets) {
			fmt.Printf("showing %d of %d tickets\n", len(list.Tickets), list.TotalCount)
		}
		return nil
	},
}

// ticketsCreateCmd submits a new ticket
var ticketsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new ticket",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newAppEnv(cmd)
		if err != nil {
			return err
		}

		title, _ := cmd.Flags().GetString("title")
		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetString("priority")

		if title == "" {
			title, err = tui.PromptForString("Title", "What needs fixing?", true)
			if err != nil {
				return err
			}
		}
		if priority == "" {
			priority = "medium"
		}

		res := api.NewTickets(env.client).Create(cmd.Context(), api.CreateTicketInput{
			Title:       title,
			Description: description,
			Priority:    priority,
		})
		if !res.OK {
			return fmt.Errorf("could not create ticket: %s", res.Message)
		}

		fmt.Printf("Ticket #%d created.\n", res.Data.ID)
		return nil
	},
}

func init() {
	ticketsCmd.AddCommand(ticketsListCmd)
	ticketsCmd.AddCommand(ticketsCreateCmd)

	ticketsListCmd.Flags().String("status", "", "Filter by status (open, in_progress, resolved, closed)")
	ticketsListCmd.Flags().Bool("mine", false, "Only tickets you requested")
	ticketsListCmd.Flags().Int("department", 0, "Filter by department ID")
	ticketsListCmd.Flags().Int("page", 1, "Result page")

	ticketsCreateCmd.Flags().String("title", "", "Ticket title (prompted if omitted)")
	ticketsCreateCmd.Flags().String("description", "", "Ticket description")
	ticketsCreateCmd.Flags().String("priority", "", "Priority (low, medium, high)")

	rootCmd.AddCommand(ticketsCmd)
}
