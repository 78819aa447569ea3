package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Token prefixes recognized by ParseCapture.
const (
	tagPrefix     = "#"
	contextPrefix = "@"
	statusPrefix  = "!"
	typePrefix    = "type:"
	duePrefix     = "due:"
	energyPrefix  = "energy:"
	titlePrefix   = "title:"
)

var (
	dueTokenPattern      = regexp.MustCompile(`^due:(\d{4}-\d{2}-\d{2})$`)
	durationTokenPattern = regexp.MustCompile(`^~(?:(\d+)h)?(?:(\d+)m)?$`)
)

type tokenKind int

const (
	tokenTag tokenKind = iota + 1
	tokenContext
	tokenStatus
	tokenKindSelector
	tokenDue
	tokenEnergy
	tokenDuration
	tokenTitle
)

// token is a recognized quick-entry token with its decoded value.
type token struct {
	text     string
	due      Date
	kind     tokenKind
	status   Status
	itemKind Kind
	energy   Energy
	minutes  int
}

// ParseCapture turns one line of quick-entry text into a CaptureRecord.
// It never fails: anything it does not recognize becomes title text.
//
// Recognized tokens, in precedence order:
//
//	#tag            tag (lowercased, edge punctuation stripped)
//	@context        context, first one wins
//	!status         one of inbox, active, waiting, someday, done, archived
//	type:idea|task  kind
//	due:YYYY-MM-DD  due date
//	energy:low|medium|high
//	~30m, ~2h, ~1h30m  duration
//	title:...       explicit title, consumes following words up to the next recognized token
//
// When an explicit title is given, the remaining free words become the body.
// Kind and status are left unset when absent; see CaptureRecord.WithDefaults.
func ParseCapture(line string) CaptureRecord {
	fields := strings.Fields(line)

	var rec CaptureRecord
	var free, explicit []string
	hasExplicit := false
	contextSet := false
	tags := make([]string, 0)

	for i := 0; i < len(fields); i++ {
		tok, ok := recognizeToken(fields[i])
		if !ok {
			free = append(free, fields[i])
			continue
		}

		switch tok.kind {
		case tokenTitle:
			hasExplicit = true
			if tok.text != "" {
				explicit = append(explicit, tok.text)
			}
			for i+1 < len(fields) {
				if _, next := recognizeToken(fields[i+1]); next {
					break
				}
				i++
				explicit = append(explicit, fields[i])
			}
		case tokenTag:
			tags = append(tags, tok.text)
		case tokenContext:
			if !contextSet {
				rec.Context = tok.text
				contextSet = true
			}
		case tokenStatus:
			rec.Status = tok.status
		case tokenKindSelector:
			rec.Kind = tok.itemKind
		case tokenDue:
			due := tok.due
			rec.DueAt = &due
		case tokenEnergy:
			rec.Energy = tok.energy
		case tokenDuration:
			minutes := tok.minutes
			rec.DurationMinutes = &minutes
		}
	}

	if hasExplicit {
		rec.Title = strings.Join(explicit, " ")
		rec.Body = strings.Join(free, " ")
	} else {
		rec.Title = strings.Join(free, " ")
	}
	rec.Tags = NormalizeTags(tags)
	return rec
}

// recognizeToken classifies a single whitespace-free word.
func recognizeToken(word string) (token, bool) {
	lower := strings.ToLower(word)

	switch {
	case strings.HasPrefix(word, tagPrefix):
		if tag := NormalizeTag(word[len(tagPrefix):]); tag != "" {
			return token{kind: tokenTag, text: tag}, true
		}
	case strings.HasPrefix(word, contextPrefix):
		if ctx := word[len(contextPrefix):]; ctx != "" {
			return token{kind: tokenContext, text: ctx}, true
		}
	case strings.HasPrefix(word, statusPrefix):
		if st, ok := ParseStatus(word[len(statusPrefix):]); ok {
			return token{kind: tokenStatus, status: st}, true
		}
	case strings.HasPrefix(lower, typePrefix):
		if k, ok := ParseKind(word[len(typePrefix):]); ok {
			return token{kind: tokenKindSelector, itemKind: k}, true
		}
	case strings.HasPrefix(lower, duePrefix):
		if m := dueTokenPattern.FindStringSubmatch(lower); m != nil {
			if d, err := ParseDate(m[1]); err == nil {
				return token{kind: tokenDue, due: d}, true
			}
		}
	case strings.HasPrefix(lower, energyPrefix):
		if e, ok := ParseEnergy(word[len(energyPrefix):]); ok {
			return token{kind: tokenEnergy, energy: e}, true
		}
	case strings.HasPrefix(word, "~"):
		if minutes, ok := parseDuration(lower); ok {
			return token{kind: tokenDuration, minutes: minutes}, true
		}
	case strings.HasPrefix(lower, titlePrefix):
		return token{kind: tokenTitle, text: word[len(titlePrefix):]}, true
	}
	return token{}, false
}

// parseDuration accepts ~Nh, ~Nm and ~NhMm.
func parseDuration(word string) (int, bool) {
	m := durationTokenPattern.FindStringSubmatch(word)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 0, false
	}
	total := 0
	if m[1] != "" {
		h, err := strconv.Atoi(m[1])
		if err != nil || h > MaxDurationMinutes/60 {
			return 0, false
		}
		total += h * 60
	}
	if m[2] != "" {
		mins, err := strconv.Atoi(m[2])
		if err != nil || mins > MaxDurationMinutes-total {
			return 0, false
		}
		total += mins
	}
	return total, true
}
