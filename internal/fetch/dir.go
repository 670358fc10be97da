package fetch

import (
	"os"
	"path/filepath"

	"github.com/roach88/execdash/internal/records"
)

// CodeFile marks a payload that could not be read from disk.
const CodeFile = "ERR_FILE"

// LoadDir builds a Snapshot from saved payloads instead of the network.
//
// The directory must contain financial.json, hr.json, rnd.json and
// security.json, each holding a response body as served by the API. The same
// all-or-nothing and schema rules as FetchAll apply.
func (c *Client) LoadDir(dir string) (*Snapshot, error) {
	snap := &Snapshot{
		ID:     c.ids.Generate(),
		Source: dir,
	}

	bodies := make(map[records.Category][]byte, len(records.Categories))
	for _, cat := range records.Categories {
		path := filepath.Join(dir, string(cat)+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &Error{Category: cat, Op: OpRead, URL: path, Code: CodeFile, Err: err}
		}
		bodies[cat] = data
	}

	var err error
	if snap.Financial, err = records.DecodeFinancial(bodies[records.CategoryFinancial], c.decodeOpts); err != nil {
		return nil, newDecodeError(records.CategoryFinancial, dir, err)
	}
	if snap.HR, err = records.DecodeHR(bodies[records.CategoryHR], c.decodeOpts); err != nil {
		return nil, newDecodeError(records.CategoryHR, dir, err)
	}
	if snap.RND, err = records.DecodeRND(bodies[records.CategoryRND], c.decodeOpts); err != nil {
		return nil, newDecodeError(records.CategoryRND, dir, err)
	}
	if snap.Security, err = records.DecodeSecurity(bodies[records.CategorySecurity], c.decodeOpts); err != nil {
		return nil, newDecodeError(records.CategorySecurity, dir, err)
	}

	snap.FetchedAt = c.now()
	return snap, nil
}
