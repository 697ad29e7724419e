package main

import (
	"github.com/spf13/cobra"

	"github.com/emilythestrangee/querynet/backend/internal/database"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
)

var (
	reconcileUser  string
	reconcileBatch int

	reconcileCmd = &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute user activity counters from stored questions and answers",
		RunE:  runReconcile,
	}
)

func init() {
	reconcileCmd.Flags().StringVar(&reconcileUser, "user", "", "reconcile a single user id")
	reconcileCmd.Flags().IntVar(&reconcileBatch, "batch", 500, "users loaded per batch")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := qa.NewService(db.GetDB(), log, nil)
	ctx := cmd.Context()

	if reconcileUser != "" {
		changed, err := svc.Reconcile(ctx, reconcileUser)
		if err != nil {
			return err
		}
		log.Info("reconciled user", "user", reconcileUser, "changed", changed)
		return nil
	}

	n, err := svc.ReconcileAll(ctx, reconcileBatch)
	if err != nil {
		return err
	}
	log.Info("reconciled users", "changed", n)
	return nil
}
