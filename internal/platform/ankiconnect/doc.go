// Package ankiconnect implements the anki.Gateway interface against
// the AnkiConnect add-on's HTTP API: a single POST endpoint taking an
// {action, version, params} envelope and answering {result, error}.
package ankiconnect
