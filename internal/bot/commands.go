package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matheuscscp/splitbill/models"
)

type (
	command struct {
		name string
		args string
	}
)

const (
	cmdItems   = "items"
	cmdAdd     = "add"
	cmdRename  = "rename"
	cmdRemove  = "remove"
	cmdClaim   = "claim"
	cmdMenu    = "menu"
	cmdFee     = "fee"
	cmdSummary = "summary"
	cmdSave    = "save"
	cmdHistory = "history"
	cmdOpen    = "open"
	cmdForget  = "forget"
	cmdAbort   = "abort"
	cmdUptime  = "uptime"
	cmdFinish  = "finish"
	cmdHelp    = "help"
	cmdStart   = "start"

	nameSeparator = ","
)

var (
	errUsage = errors.New("usage")
)

// parseCommand splits "/claim@splitbill_bot Ana 1 2" into "claim" and
// "Ana 1 2". Text not starting with a slash is not a command.
func parseCommand(text string) (command, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return command{}, false
	}
	name, args, _ := strings.Cut(text[1:], " ")
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	return command{name: strings.ToLower(name), args: strings.TrimSpace(args)}, true
}

// parseNames reads "Ana, Budi" as two names.
func parseNames(args string) []string {
	var names []string
	for _, name := range strings.Split(args, nameSeparator) {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// parseRename reads "old name, new name".
func parseRename(args string) (string, string, error) {
	oldName, newName, ok := strings.Cut(args, nameSeparator)
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	if !ok || oldName == "" || newName == "" {
		return "", "", fmt.Errorf("%w: /%s <name>, <new name>", errUsage, cmdRename)
	}
	return oldName, newName, nil
}

// splitTail returns the last n fields of args and what comes before them.
func splitTail(args string, n int) (string, []string, bool) {
	fields := strings.Fields(args)
	if len(fields) < n+1 {
		return "", nil, false
	}
	return strings.Join(fields[:len(fields)-n], " "), fields[len(fields)-n:], true
}

type claimArgs struct {
	participant string
	position    int
	quantity    int
}

// parseClaim reads "<name> <item number> <quantity>". The quantity is
// optional and defaults to 1.
func parseClaim(args string) (claimArgs, error) {
	usage := fmt.Errorf("%w: /%s <name> <item number> [quantity]", errUsage, cmdClaim)
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return claimArgs{}, usage
	}
	n := 2
	if len(fields) == 2 {
		n = 1
	} else if _, err := strconv.Atoi(fields[len(fields)-2]); err != nil {
		n = 1
	}
	name, tail, ok := splitTail(args, n)
	if !ok {
		return claimArgs{}, usage
	}
	c := claimArgs{participant: name, quantity: 1}
	var err error
	if c.position, err = strconv.Atoi(tail[0]); err != nil || c.position <= 0 {
		return claimArgs{}, usage
	}
	if n == 2 {
		if c.quantity, err = strconv.Atoi(tail[1]); err != nil {
			return claimArgs{}, usage
		}
	}
	return c, nil
}

// parseMenu reads "<name> <quantity> <price>".
func parseMenu(args string) (models.ManualEntry, error) {
	usage := fmt.Errorf("%w: /%s <name> <quantity> <price>", errUsage, cmdMenu)
	name, tail, ok := splitTail(args, 2)
	if !ok {
		return models.ManualEntry{}, usage
	}
	quantity, err := strconv.Atoi(tail[0])
	if err != nil {
		return models.ManualEntry{}, usage
	}
	price, ok := parseSignedAmount(tail[1])
	if !ok {
		return models.ManualEntry{}, usage
	}
	return models.ManualEntry{Name: name, Quantity: quantity, Price: price, Category: models.CategoryMenu}, nil
}

// parseFee reads "<name> <amount>", a negative amount being a discount.
func parseFee(args string) (models.ManualEntry, error) {
	usage := fmt.Errorf("%w: /%s <name> <amount>", errUsage, cmdFee)
	name, tail, ok := splitTail(args, 1)
	if !ok {
		return models.ManualEntry{}, usage
	}
	amount, ok := parseSignedAmount(tail[0])
	if !ok {
		return models.ManualEntry{}, usage
	}
	return models.ManualEntry{Name: name, Price: amount, Category: models.CategoryFee}, nil
}

// parsePosition reads a 1-based list position.
func parsePosition(args, cmd string) (int, error) {
	position, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || position <= 0 {
		return 0, fmt.Errorf("%w: /%s <number>", errUsage, cmd)
	}
	return position, nil
}

func parseSignedAmount(tok string) (models.Amount, bool) {
	tok = strings.TrimSpace(tok)
	a, ok := models.ParseAmount(tok)
	if !ok {
		return 0, false
	}
	if strings.HasPrefix(tok, "-") {
		a = -a
	}
	return a, true
}
