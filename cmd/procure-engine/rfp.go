// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meshintel/procure-engine/internal/store"
	"github.com/meshintel/procure-engine/pkg/types"
)

var rfpCmd = &cobra.Command{
	Use:   "rfp",
	Short: "Manage requests for proposals",
}

var rfpCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new RFP",
	RunE:  runRFPCreate,
}

func runRFPCreate(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	requirements, _ := cmd.Flags().GetString("requirements")
	budget, _ := cmd.Flags().GetFloat64("budget")

	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	rfp := types.RFP{
		Title:        title,
		Description:  description,
		Requirements: requirements,
	}
	if cmd.Flags().Changed("budget") {
		rfp.Budget = &budget
	}

	created, err := s.CreateRFP(context.Background(), rfp)
	if err != nil {
		return err
	}
	fmt.Printf("Created RFP %d: %s\n", created.ID, created.Title)
	return nil
}

var rfpListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all RFPs",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		rfps, err := s.ListRFPs(context.Background())
		if err != nil {
			return err
		}
		if len(rfps) == 0 {
			fmt.Println("No RFPs.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tLOCKED\tBUDGET")
		for _, r := range rfps {
			budget := "-"
			if r.Budget != nil {
				budget = fmt.Sprintf("%.2f", *r.Budget)
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%v\t%s\n", r.ID, r.Title, r.Status, r.BidsLocked, budget)
		}
		return tw.Flush()
	},
}

var rfpPublishCmd = &cobra.Command{
	Use:   "publish [id]",
	Short: "Publish an RFP so vendors can bid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRFPStatus(args[0], types.RFPPublished)
	},
}

var rfpCloseCmd = &cobra.Command{
	Use:   "close [id]",
	Short: "Close an RFP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRFPStatus(args[0], types.RFPClosed)
	},
}

var rfpLockCmd = &cobra.Command{
	Use:   "lock [id]",
	Short: "Stop accepting new bids on an RFP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRFPLock(args[0], true)
	},
}

var rfpUnlockCmd = &cobra.Command{
	Use:   "unlock [id]",
	Short: "Resume accepting bids on an RFP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRFPLock(args[0], false)
	},
}

func setRFPStatus(idArg string, status types.RFPStatus) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.UpdateRFPStatus(context.Background(), id, status); err != nil {
		return err
	}
	fmt.Printf("RFP %d is now %s\n", id, status)
	return nil
}

func setRFPLock(idArg string, locked bool) error {
	id, err := parseID(idArg)
	if err != nil {
		return err
	}
	s, err := store.NewStore(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SetBidsLocked(context.Background(), id, locked); err != nil {
		return err
	}
	if locked {
		fmt.Printf("RFP %d is no longer accepting bids\n", id)
	} else {
		fmt.Printf("RFP %d is accepting bids\n", id)
	}
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}
	return id, nil
}

func init() {
	rfpCreateCmd.Flags().String("title", "", "RFP title (required)")
	rfpCreateCmd.Flags().String("description", "", "RFP description")
	rfpCreateCmd.Flags().String("requirements", "", "requirements text used for bid evaluation")
	rfpCreateCmd.Flags().Float64("budget", 0, "budget amount")
	_ = rfpCreateCmd.MarkFlagRequired("title")

	rfpCmd.AddCommand(rfpCreateCmd)
	rfpCmd.AddCommand(rfpListCmd)
	rfpCmd.AddCommand(rfpPublishCmd)
	rfpCmd.AddCommand(rfpCloseCmd)
	rfpCmd.AddCommand(rfpLockCmd)
	rfpCmd.AddCommand(rfpUnlockCmd)

	rootCmd.AddCommand(rfpCmd)
}
