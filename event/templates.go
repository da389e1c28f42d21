package event

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nxadm/tail"
	log "github.com/sirupsen/logrus"
)

// defaultTemplates are lines lifted from firewall and VPN appliance logs. They
// give receivers something that looks like real traffic to parse.
var defaultTemplates = []string{
	"Teardown UDP connection for faddr 80.58.4.34/37074 gaddr 10.0.0.187/53 laddr 192.168.0.2/53",
	"192.168.0.2 Accessed URL 212.227.109.224:/scriptlib/ClientStdScripts.js",
	"Built outbound TCP connection 152083 for faddr 212.227.109.224/80 gaddr 10.0.0.187/56684 laddr 192.168.0.2/56684",
	"Teardown TCP connection 151957 faddr 212.227.109.224/80 gaddr 10.0.0.187/56613 laddr 192.168.0.2/56613 duration 0:04:56 bytes 11069 (TCP Reset-I)",
	"Deny TCP (no connection) from 192.168.0.2/2799 to 192.168.202.1/2244 flags SYN ACK on interface inside",
	"Built UDP connection for faddr 211.9.32.235/32770 gaddr 10.0.0.187/53 laddr 192.168.0.2/53",
	"Authen Session End: user '', sid 1, elapsed 313 seconds",
	`Deny icmp src outside:Some-Cisco dst inside:10.0.0.187 (type 3, code 1) by access-group "outside_access_in"`,
}

// DefaultTemplates returns a copy of the built-in template set
func DefaultTemplates() []string {
	templates := make([]string, len(defaultTemplates))
	copy(templates, defaultTemplates)
	return templates
}

// LoadTemplates reads one template per line from a file. Blank lines are
// skipped. The file is read once and not followed.
func LoadTemplates(path string) ([]string, error) {
	tailed, err := tail.TailFile(path, tail.Config{
		Follow: false, MustExist: true, Logger: log.StandardLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open templates file %s: %w", path, err)
	}
	defer tailed.Cleanup()

	var templates []string
	for line := range tailed.Lines {
		if line.Err != nil {
			return nil, fmt.Errorf("failed to read templates file %s: %w", path, line.Err)
		}

		text := strings.TrimRight(line.Text, "\r")
		if strings.TrimSpace(text) == "" {
			continue
		}

		templates = append(templates, text)
	}

	if len(templates) < 1 {
		return nil, errors.New("no templates found in " + path)
	}

	log.Infof("Loaded %d templates from %s", len(templates), path)

	return templates, nil
}
