package sheets

import (
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

var (
	// ErrConfiguration means the spreadsheet ID or credential bundle is missing.
	ErrConfiguration = errors.New("configuration error")
	// ErrAuthentication means the credentials are invalid or were rejected.
	ErrAuthentication = errors.New("authentication error")
	// ErrNotFound means the spreadsheet does not exist.
	ErrNotFound = errors.New("spreadsheet not found")
	// ErrRange means the range spec is malformed or names an unknown sheet.
	ErrRange = errors.New("invalid range")
	// ErrWrite means the store rejected a write.
	ErrWrite = errors.New("write rejected")
)

// classify maps a remote API failure onto the error taxonomy. write selects
// ErrWrite as the fallback kind instead of passing the error through.
func classify(op string, err error, write bool) error {
	if err == nil {
		return nil
	}
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return fmt.Errorf("%s: %w: %v", op, ErrAuthentication, err)
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusUnauthorized:
			return fmt.Errorf("%s: %w: %v", op, ErrAuthentication, err)
		case http.StatusForbidden:
			// Valid credentials without edit access: the write itself was refused.
			if write {
				return fmt.Errorf("%s: %w: %v", op, ErrWrite, err)
			}
			return fmt.Errorf("%s: %w: %v", op, ErrAuthentication, err)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %v", op, ErrNotFound, err)
		case http.StatusBadRequest:
			return fmt.Errorf("%s: %w: %v", op, ErrRange, err)
		}
	}
	if write {
		return fmt.Errorf("%s: %w: %v", op, ErrWrite, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
