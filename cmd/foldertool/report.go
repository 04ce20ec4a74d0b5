package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"educreate/internal/domain/models"
	"educreate/internal/domain/services"
	"educreate/internal/hierarchy"
)

// userReport is the verification result for one user.
type userReport struct {
	UserID     string                `json:"userId"`
	Violations []hierarchy.Violation `json:"violations"`
}

// verifyUsers verifies each user with at most concurrency checks in flight.
// Reports come back in the order of users.
func verifyUsers(ctx context.Context, svc services.HierarchyService, users []string, concurrency int) ([]userReport, error) {
	reports := make([]userReport, len(users))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, userID := range users {
		g.Go(func() error {
			violations, err := svc.VerifyHierarchy(ctx, userID)
			if err != nil {
				return fmt.Errorf("verify %s: %w", userID, err)
			}
			if violations == nil {
				violations = []hierarchy.Violation{}
			}
			reports[i] = userReport{UserID: userID, Violations: violations}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func countViolations(reports []userReport) int {
	n := 0
	for _, r := range reports {
		n += len(r.Violations)
	}
	return n
}

func printReports(w io.Writer, reports []userReport, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, r := range reports {
		if len(r.Violations) == 0 {
			fmt.Fprintf(w, "%s: ok\n", r.UserID)
			continue
		}
		fmt.Fprintf(w, "%s: %d violations\n", r.UserID, len(r.Violations))
		for _, v := range r.Violations {
			fmt.Fprintf(w, "  %s  %-14s %s\n", v.FolderID, v.Kind, v.Detail)
		}
	}
	return nil
}

func printTree(w io.Writer, nodes []*models.FolderTreeNode) {
	for _, n := range nodes {
		fmt.Fprintf(w, "%s%s  (%s)\n", strings.Repeat("  ", n.Depth), n.Name, n.ID)
		printTree(w, n.Folders)
	}
}
