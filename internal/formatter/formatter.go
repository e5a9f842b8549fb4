// package formatter builds the user-facing chat replies and the exports of the
// settings store (CSV, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/desertthunder/faustok/internal/models"
	"github.com/desertthunder/faustok/internal/shared"
)

// Version is reported by the about command.
const Version = "0.1.0"

const repoURL = "https://github.com/yuvlian/Faustok"

// AutofixUpdated confirms a preference change.
func AutofixUpdated(userID string, value bool) string {
	return fmt.Sprintf(`Autofix for id "%s" has been updated to **%t**`, userID, value)
}

// AutofixNotSaved reports a preference change that is in effect but could not be written to disk.
func AutofixNotSaved(userID string, value bool) string {
	return AutofixUpdated(userID, value) + "\n-# This change could not be saved and will be lost on restart."
}

// AutofixStatus reports the current preference of a user.
func AutofixStatus(userID string, value bool) string {
	return fmt.Sprintf(`Autofix for id "%s" is currently **%t**`, userID, value)
}

// Failure converts a command error into the reply shown to the invoking user.
func Failure(command string, err error) string {
	var reason string
	switch {
	case errors.Is(err, shared.ErrMediaNotFound):
		reason = "no matching media was found for that link"
	case errors.Is(err, shared.ErrResolve):
		reason = "the link could not be resolved"
	case errors.Is(err, shared.ErrDownload):
		reason = "the media could not be downloaded"
	case errors.Is(err, shared.ErrUpload):
		reason = "the media could not be uploaded"
	case errors.Is(err, shared.ErrMissingArgument):
		reason = "a required argument is missing"
	case errors.Is(err, shared.ErrInvalidArgument):
		reason = "an argument is invalid"
	case errors.Is(err, shared.ErrUnknownCommand):
		reason = "unknown command"
	default:
		reason = "something went wrong"
	}
	return fmt.Sprintf("`%s` failed: %s.", command, reason)
}

// Help renders the command list with examples using prefix.
func Help(prefix string) string {
	var buf bytes.Buffer

	buf.WriteString("```toml\n[commands]\n")
	buf.WriteString(`help = "Shows this message"` + "\n")
	buf.WriteString(`about = "Shows information about the bot"` + "\n")
	buf.WriteString(`autofix = "Enables autoreplace links in messages with the embed fixed"` + "\n")
	buf.WriteString(`check_autofix = "Check autofix status"` + "\n")
	buf.WriteString(`vid = "Downloads video from a tiktok video url and reuploads it"` + "\n")
	buf.WriteString(`mp3 = "Downloads audio from a tiktok video url and reuploads it"` + "\n")
	buf.WriteString(`img = "Downloads images from a tiktok slideshow url and reuploads it"` + "\n")

	buf.WriteString("\n[commands.example]\n")
	examples := [][2]string{
		{"help", ""},
		{"about", ""},
		{"autofix", " true"},
		{"check_autofix", " @someone"},
		{"vid", " <https://vt.tiktok.com/ZS2fMDLkU/>"},
		{"mp3", " <https://vt.tiktok.com/ZS2fMDLkU/>"},
		{"img", " <https://vt.tiktok.com/ZS2g5AWKk/>"},
	}
	for _, ex := range examples {
		buf.WriteString(fmt.Sprintf("%s = %q\n", ex[0], prefix+ex[0]+ex[1]))
	}
	buf.WriteString("```")

	return buf.String()
}

// About renders the bot information block.
func About() string {
	var buf bytes.Buffer

	buf.WriteString("```toml\n[about]\n")
	buf.WriteString(fmt.Sprintf("repo = %q\n", "<"+repoURL+">"))
	buf.WriteString(`license = "BSD 3-Clause"` + "\n")
	buf.WriteString("\n[version]\n")
	buf.WriteString(fmt.Sprintf("bot = %q\n", Version))
	buf.WriteString(`discordgo = "0.29.0"` + "\n")
	buf.WriteString("```")

	return buf.String()
}

// RelaySummary is the one-line log/CLI summary of a finished relay.
func RelaySummary(kind models.MediaKind, files, batches int, bytes int64) string {
	return fmt.Sprintf("relayed %d %s file(s) in %d message(s), %s", files, kind, batches, HumanBytes(bytes))
}

// HumanBytes formats n using binary units.
func HumanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// SettingsToCSV converts a settings snapshot to CSV with columns: User, Autofix.
// Rows are sorted by user id.
func SettingsToCSV(userMap map[string]bool) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"User", "Autofix"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, id := range sortedKeys(userMap) {
		if err := writer.Write([]string{id, strconv.FormatBool(userMap[id])}); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// SettingsToJSON converts a settings snapshot to the settings file layout.
func SettingsToJSON(userMap map[string]bool) ([]byte, error) {
	if userMap == nil {
		userMap = map[string]bool{}
	}
	data, err := json.MarshalIndent(models.UserSettings{UserMap: userMap}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return data, nil
}

// SettingsToText converts a settings snapshot to plain text, one user per line.
func SettingsToText(userMap map[string]bool) ([]byte, error) {
	var buf bytes.Buffer

	enabled := 0
	for _, v := range userMap {
		if v {
			enabled++
		}
	}
	buf.WriteString(fmt.Sprintf("Users: %d (autofix on: %d)\n\n", len(userMap), enabled))

	for i, id := range sortedKeys(userMap) {
		state := "off"
		if userMap[id] {
			state = "on"
		}
		buf.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, id, state))
	}

	return buf.Bytes(), nil
}

// ExportSettings renders a snapshot in format: csv, json or text.
func ExportSettings(userMap map[string]bool, format string) ([]byte, error) {
	switch format {
	case "csv":
		return SettingsToCSV(userMap)
	case "json":
		return SettingsToJSON(userMap)
	case "text", "txt", "":
		return SettingsToText(userMap)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", shared.ErrInvalidArgument, format)
	}
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
