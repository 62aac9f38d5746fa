// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meshintel/procure-engine/internal/store"
	"github.com/meshintel/procure-engine/pkg/types"
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Manage vendor questions on RFPs",
}

var qaAskCmd = &cobra.Command{
	Use:   "ask [rfp-id]",
	Short: "Record a vendor question on an RFP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rfpID, err := parseID(args[0])
		if err != nil {
			return err
		}
		vendorName, _ := cmd.Flags().GetString("vendor")
		question, _ := cmd.Flags().GetString("question")

		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		q, err := s.CreateQuestion(context.Background(), types.VendorQA{
			RFPID:      rfpID,
			VendorName: vendorName,
			Question:   question,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Recorded question %d on RFP %d\n", q.ID, rfpID)
		return nil
	},
}

var qaAnswerCmd = &cobra.Command{
	Use:   "answer [question-id]",
	Short: "Answer a vendor question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		answer, _ := cmd.Flags().GetString("answer")

		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.AnswerQuestion(context.Background(), id, answer); err != nil {
			return err
		}
		fmt.Printf("Answered question %d\n", id)
		return nil
	},
}

var qaListCmd = &cobra.Command{
	Use:   "list [rfp-id]",
	Short: "List questions on an RFP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rfpID, err := parseID(args[0])
		if err != nil {
			return err
		}
		s, err := store.NewStore(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		questions, err := s.ListQuestions(context.Background(), rfpID)
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			fmt.Println("No questions.")
			return nil
		}
		for _, q := range questions {
			fmt.Printf("%d. [%s] %s: %s\n", q.ID, q.Status, q.VendorName, q.Question)
			if q.Answer != "" {
				fmt.Printf("   A: %s\n", q.Answer)
			}
		}
		return nil
	},
}

func init() {
	qaAskCmd.Flags().String("vendor", "", "vendor asking the question")
	qaAskCmd.Flags().String("question", "", "question text (required)")
	_ = qaAskCmd.MarkFlagRequired("question")

	qaAnswerCmd.Flags().String("answer", "", "answer text (required)")
	_ = qaAnswerCmd.MarkFlagRequired("answer")

	qaCmd.AddCommand(qaAskCmd)
	qaCmd.AddCommand(qaAnswerCmd)
	qaCmd.AddCommand(qaListCmd)

	rootCmd.AddCommand(qaCmd)
}
