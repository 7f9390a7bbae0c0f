package objstore

import (
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"
)

// Commit represents a parsed commit object.
type Commit struct {
	TreeHash  string
	Parents   []string
	Author    string
	Committer string
	Message   string
}

// Signature identifies the author or committer of a commit, along with the
// moment it was made. It mirrors the "name <email> unixtime zone" line
// format written into commit objects.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// String renders the signature in the "Name <email> seconds zone" format
// used inside commit object bodies.
func (s Signature) String() string {
	_, offset := s.When.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	return fmt.Sprintf("%s <%s> %d %s%02d%02d", s.Name, s.Email, s.When.Unix(), sign, hours, minutes)
}

// WriteCommit creates a commit object and returns its hash.
func WriteCommit(root, treeHash string, parents []string, message string) (string, error) {
	author := formatAuthor()
	timestamp := formatTimestamp()

	var buf strings.Builder
	fmt.Fprintf(&buf, "tree %s\n", treeHash)
	for _, p := range parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s %s\n", author, timestamp)
	fmt.Fprintf(&buf, "committer %s %s\n", author, timestamp)
	fmt.Fprintf(&buf, "\n%s\n", message)

	return WriteObject(root, "commit", []byte(buf.String()))
}

// WriteCommitSigned creates a commit object with explicit author and
// committer signatures, as the absorption engine needs when it fabricates
// fixup commits rather than recording the user's own action.
func WriteCommitSigned(root, treeHash string, parents []string, author, committer Signature, message string) (string, error) {
	var buf strings.Builder
	fmt.Fprintf(&buf, "tree %s\n", treeHash)
	for _, p := range parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s\n", author.String())
	fmt.Fprintf(&buf, "committer %s\n", committer.String())
	fmt.Fprintf(&buf, "\n%s\n", message)

	return WriteObject(root, "commit", []byte(buf.String()))
}

// ReadCommit reads and parses a commit object.
func ReadCommit(root, hash string) (*Commit, error) {
	_, content, err := ReadObject(root, hash)
	if err != nil {
		return nil, err
	}
	return ParseCommit(content)
}

// ParseCommit parses commit content into a Commit struct.
func ParseCommit(data []byte) (*Commit, error) {
	c := &Commit{}
	text := string(data)

	// Split headers from message at first blank line
	parts := strings.SplitN(text, "\n\n", 2)
	if len(parts) == 2 {
		c.Message = strings.TrimSpace(parts[1])
	}

	for _, line := range strings.Split(parts[0], "\n") {
		if strings.HasPrefix(line, "tree ") {
			c.TreeHash = strings.TrimPrefix(line, "tree ")
		} else if strings.HasPrefix(line, "parent ") {
			c.Parents = append(c.Parents, strings.TrimPrefix(line, "parent "))
		} else if strings.HasPrefix(line, "author ") {
			c.Author = strings.TrimPrefix(line, "author ")
		} else if strings.HasPrefix(line, "committer ") {
			c.Committer = strings.TrimPrefix(line, "committer ")
		}
	}

	return c, nil
}

// ParseSignature parses a "Name <email> unixtime zone" commit header value
// into its name and email (the timestamp is not needed by callers that only
// compare identities, so it is parsed on a best-effort basis).
func ParseSignature(raw string) Signature {
	var sig Signature
	open := strings.IndexByte(raw, '<')
	close := strings.IndexByte(raw, '>')
	if open < 0 || close < 0 || close < open {
		sig.Name = strings.TrimSpace(raw)
		return sig
	}
	sig.Name = strings.TrimSpace(raw[:open])
	sig.Email = raw[open+1 : close]

	rest := strings.TrimSpace(raw[close+1:])
	fields := strings.Fields(rest)
	if len(fields) > 0 {
		if sec, err := parseUnix(fields[0]); err == nil {
			sig.When = time.Unix(sec, 0)
		}
	}
	return sig
}

func parseUnix(s string) (int64, error) {
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}

// CurrentSignature returns the identity that would be used to author a new
// commit right now: $GOGIT_AUTHOR_NAME/$GOGIT_AUTHOR_EMAIL if set, else the
// OS user, else the synthetic "nobody <nobody@example.com>" fallback the
// engine needs to keep running in an identity-less test environment.
func CurrentSignature() Signature {
	name := os.Getenv("GOGIT_AUTHOR_NAME")
	if name == "" {
		if u, err := userLookup(); err == nil {
			name = u.Username
		}
	}
	email := os.Getenv("GOGIT_AUTHOR_EMAIL")
	if name == "" && email == "" {
		return Signature{Name: "nobody", Email: "nobody@example.com", When: time.Now()}
	}
	if name == "" {
		name = "Unknown"
	}
	if email == "" {
		email = name + "@localhost"
	}
	return Signature{Name: name, Email: email, When: time.Now()}
}

// userLookup is a variable wrapping user.Current so tests can override it.
var userLookup = user.Current

func formatAuthor() string {
	name := os.Getenv("GOGIT_AUTHOR_NAME")
	if name == "" {
		if u, err := userLookup(); err == nil {
			name = u.Username
		} else {
			name = "Unknown"
		}
	}
	email := os.Getenv("GOGIT_AUTHOR_EMAIL")
	if email == "" {
		email = name + "@localhost"
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

func formatTimestamp() string {
	now := time.Now()
	_, offset := now.Zone()
	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 3600
	minutes := (offset % 3600) / 60
	return fmt.Sprintf("%d %s%02d%02d", now.Unix(), sign, hours, minutes)
}
