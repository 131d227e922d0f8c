// Package markup extracts form fields from the identity provider's login
// pages. The sign-in flow depends on undocumented page shapes, so extraction
// goes through a real HTML parser and a missing fragment is a hard,
// recognizable error rather than a silent mismatch.
package markup

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

var ErrNotFound = errors.New("markup fragment not found")

// FormAction returns the action attribute of the form with the given id, or
// of the first form in the document when formID is empty. Attribute values
// come back entity-decoded.
func FormAction(doc, formID string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing login page: %w", err)
	}

	var action string
	found := false
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "form" {
			return true
		}
		if formID != "" && attr(n, "id") != formID {
			return true
		}
		action = attr(n, "action")
		found = true
		return false
	})

	if !found {
		if formID != "" {
			return "", fmt.Errorf("%w: form %q", ErrNotFound, formID)
		}
		return "", fmt.Errorf("%w: form", ErrNotFound)
	}
	return action, nil
}

// FormActionWithInput returns the action attribute of the first form that
// contains an input element with the given name. This identifies a form by
// its content when pages carry differently shaped forms at the same step.
func FormActionWithInput(doc, inputName string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing login page: %w", err)
	}

	var action string
	found := false
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "form" {
			return true
		}
		if !hasInput(n, inputName) {
			return true
		}
		action = attr(n, "action")
		found = true
		return false
	})

	if !found {
		return "", fmt.Errorf("%w: form with input %q", ErrNotFound, inputName)
	}
	return action, nil
}

// HiddenInput returns the value of the input element with the given name.
func HiddenInput(doc, name string) (string, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("parsing login page: %w", err)
	}

	var value string
	found := false
	walk(root, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "input" {
			return true
		}
		if attr(n, "name") != name {
			return true
		}
		value = attr(n, "value")
		found = true
		return false
	})

	if !found {
		return "", fmt.Errorf("%w: input %q", ErrNotFound, name)
	}
	return value, nil
}

// walk visits nodes depth-first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func hasInput(form *html.Node, name string) bool {
	found := false
	walk(form, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "input" && attr(n, "name") == name {
			found = true
			return false
		}
		return true
	})
	return found
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
