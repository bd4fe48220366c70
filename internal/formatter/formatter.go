// package formatter renders domain listings and batch reports as plain
// text, CSV, and JSON for the CLI surfaces.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/seaholm/wpec/internal/bulk"
	"github.com/seaholm/wpec/internal/catalog"
	"github.com/seaholm/wpec/internal/history"
	"github.com/seaholm/wpec/internal/shared"
	"github.com/seaholm/wpec/internal/wpe"
)

func table(write func(w *tabwriter.Writer)) []byte {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	write(w)
	w.Flush()
	return buf.Bytes()
}

// AccountsTable renders an account listing.
func AccountsTable(accounts []wpe.Account) []byte {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tNAME")
		for _, a := range accounts {
			fmt.Fprintf(w, "%s\t%s\n", a.ID, a.Name)
		}
	})
}

// SitesTable renders a site listing.
func SitesTable(sites []wpe.Site) []byte {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tACCOUNT\tGROUP\tINSTALLS")
		for _, s := range sites {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.Name, s.Account.Name, s.GroupName, len(s.Installs))
		}
	})
}

// InstallsTable renders an install listing.
func InstallsTable(installs []wpe.Install) []byte {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tACCOUNT\tENVIRONMENT\tPHP\tSTATUS")
		for _, i := range installs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", i.ID, i.Name, i.Account.Name, i.Environment, i.PHPVersion, i.Status)
		}
	})
}

// UsersTable renders the merged user directory with each user's account
// memberships.
func UsersTable(users []catalog.User) []byte {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "NAME\tEMAIL\tACCOUNTS")
		for _, u := range users {
			names := make([]string, 0, len(u.Accounts))
			for _, ref := range u.Accounts {
				names = append(names, ref.Name)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.Name(), u.Email, strings.Join(names, ", "))
		}
	})
}

// AccountUsersTable renders one account's raw user listing.
func AccountUsersTable(users []wpe.AccountUser) []byte {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "USER ID\tNAME\tEMAIL\tROLES\tINVITED\tMFA")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\t%s\t%s\n",
				u.UserID, u.FirstName, u.LastName, u.Email, u.Roles,
				yesNo(u.InviteAccepted), yesNo(u.MFAEnabled))
		}
	})
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// BatchReport renders per-operation outcomes followed by a summary block.
func BatchReport(action bulk.Action, results []bulk.OperationResult) []byte {
	var buf bytes.Buffer

	for i, res := range results {
		status := "ok"
		if !res.Succeeded() {
			status = "FAILED"
		}
		buf.WriteString(fmt.Sprintf("%d. [%s] %s %s on %s", i+1, status, action, res.UserName, res.AccountName))
		if msg := res.ErrorMessage(); msg != "" {
			buf.WriteString(": " + msg)
		}
		buf.WriteString("\n")
	}

	summary := bulk.Summarize(results)
	buf.WriteString(fmt.Sprintf("\nTotal: %d  Succeeded: %d  Failed: %d\n", summary.Total, summary.Success, summary.Failed))
	return buf.Bytes()
}

// HistoryTable renders recorded batches, newest first.
func HistoryTable(batches []history.Batch) []byte {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "BATCH ID\tACTION\tOPS\tOK\tFAILED\tFINISHED")
		for _, b := range batches {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
				b.ID, b.Action, b.Operations, b.Succeeded, b.Failed,
				b.FinishedAt.Format(time.RFC3339))
		}
	})
}

// StoredResultsTable renders a persisted batch's operation outcomes.
func StoredResultsTable(results []history.Result) []byte {
	return table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "#\tUSER\tACCOUNT\tSTATUS\tERROR")
		for _, r := range results {
			status := "ok"
			if !r.Success {
				status = "failed"
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Position+1, r.UserName, r.AccountName, status, r.ErrorMessage)
		}
	})
}

// ReportToCSV converts batch results to CSV with columns:
// Position, Account ID, Account, User, Success, Error
func ReportToCSV(results []bulk.OperationResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "Account ID", "Account", "User", "Success", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, res := range results {
		record := []string{
			strconv.Itoa(i + 1),
			res.AccountID,
			res.AccountName,
			res.UserName,
			strconv.FormatBool(res.Succeeded()),
			res.ErrorMessage(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSVReport writes a batch report CSV to filepath.
//
// Defaults to batch_report_{epoch}.csv when filepath is empty.
func WriteCSVReport(results []bulk.OperationResult, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("batch_report_%d.csv", time.Now().Unix())
	}

	csvData, err := ReportToCSV(results)
	if err != nil {
		return "", fmt.Errorf("failed to generate CSV: %w", err)
	}

	if err := os.WriteFile(filepath, csvData, 0644); err != nil {
		return "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return filepath, nil
}

// ToJSON renders any domain value as indented JSON.
func ToJSON(v any) ([]byte, error) {
	return shared.MarshalJSON(v, true)
}
