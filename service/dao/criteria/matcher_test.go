package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/kproc/service/dao"
)

func TestFilterByStatus(t *testing.T) {
	testCases := []struct {
		name       string
		status     string
		parameters []*dao.Parameter
		expect     bool
	}{
		{name: "no parameters", status: "ready", expect: true},
		{name: "single match", status: "zombie", parameters: []*dao.Parameter{dao.NewParameter("Status", "zombie")}, expect: true},
		{name: "single mismatch", status: "ready", parameters: []*dao.Parameter{dao.NewParameter("Status", "zombie")}, expect: false},
		{name: "any of", status: "running", parameters: []*dao.Parameter{dao.NewParameter("Status", "ready", "running")}, expect: true},
		{name: "none of", status: "uninit", parameters: []*dao.Parameter{dao.NewParameter("Status", "ready", "running")}, expect: false},
		{name: "other parameter", status: "ready", parameters: []*dao.Parameter{dao.NewParameter("Name", "init")}, expect: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, FilterByStatus(tc.status, tc.parameters))
		})
	}
}
