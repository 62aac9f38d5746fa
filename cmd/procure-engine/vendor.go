// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meshintel/procure-engine/internal/store"
)

var vendorCmd = &cobra.Command{
	Use:   "vendor",
	Short: "Inspect vendor records resolved from bids",
}

var vendorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all vendors",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		vendors, err := s.ListVendors(context.Background())
		if err != nil {
			return err
		}
		if len(vendors) == 0 {
			fmt.Println("No vendors.")
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tWEBSITE\tVERIFIED\tREPS")
		for _, v := range vendors {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
				v.ID, v.Name, v.Website, formatVerified(v.WebsiteVerified), len(v.Representatives))
		}
		return tw.Flush()
	},
}

var vendorShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a vendor with its representatives",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		v, err := s.GetVendor(context.Background(), id)
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("vendor %d not found", id)
		}

		fmt.Printf("Vendor %d: %s\n", v.ID, v.Name)
		if v.Address != "" {
			fmt.Printf("  Address: %s\n", v.Address)
		}
		if v.Website != "" {
			fmt.Printf("  Website: %s (verified: %s)\n", v.Website, formatVerified(v.WebsiteVerified))
		}
		if v.Domain != "" {
			fmt.Printf("  Domain: %s\n", v.Domain)
		}
		for _, rep := range v.Representatives {
			fmt.Printf("  Rep: %s <%s> %s %s (email: %s, phone: %s)\n",
				rep.Name, rep.Email, rep.Phone, rep.Designation,
				formatVerified(rep.EmailVerified), formatVerified(rep.PhoneVerified))
		}
		return nil
	},
}

func formatVerified(v *bool) string {
	switch {
	case v == nil:
		return "unchecked"
	case *v:
		return "yes"
	default:
		return "no"
	}
}

func init() {
	vendorCmd.AddCommand(vendorListCmd)
	vendorCmd.AddCommand(vendorShowCmd)

	rootCmd.AddCommand(vendorCmd)
}
