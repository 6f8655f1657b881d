package plugin

import (
	"regexp"
	"strings"
)

// Filters scans the chat's blacklist/whitelist words when anti_badwords
// is enabled; a whitelist match short-circuits the scan and passes the
// message, a blacklist match deletes it (spec §4.10).
type Filters struct{}

func (Filters) Name() string { return "filters" }

func (Filters) Handle(pc *Context) (bool, error) {
	if !pc.Settings.AntiBadwords {
		return false, nil
	}
	if pc.Job.Text == "" {
		return false, nil
	}

	filters, err := pc.Store.ListFilters(pc.Job.ChatID)
	if err != nil {
		return false, err
	}

	text := strings.ToLower(pc.Job.Text)
	var blacklistHit bool

	for _, f := range filters {
		matched := matchFilter(text, f.Word, f.RegexEnabled)
		if !matched {
			continue
		}
		if f.IsWhitelist {
			return false, nil
		}
		blacklistHit = true
	}

	if !blacklistHit {
		return false, nil
	}

	if pc.Job.MessageID != "" {
		pc.Client.DeleteMessage(pc.Ctx, pc.Job.ChatID, pc.Job.MessageID)
	}
	return true, nil
}

func matchFilter(text, word string, regexEnabled bool) bool {
	if regexEnabled {
		re, err := regexp.Compile(strings.ToLower(word))
		if err != nil {
			return false
		}
		return re.MatchString(text)
	}
	return strings.Contains(text, strings.ToLower(word))
}
