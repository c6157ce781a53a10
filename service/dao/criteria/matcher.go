package criteria

import (
	"github.com/viant/kproc/service/dao"
)

// StatusParameter is the List parameter name matched by FilterByStatus.
const StatusParameter = "Status"

// FilterByStatus reports whether status satisfies the Status parameter, if
// any. Unknown parameters match everything.
func FilterByStatus(status string, parameters []*dao.Parameter) bool {
	for _, param := range parameters {
		if param == nil || param.Name != StatusParameter {
			continue
		}
		switch actual := param.Value.(type) {
		case string:
			return status == actual
		case []string:
			for _, s := range actual {
				if status == s {
					return true
				}
			}
			return false
		}
	}
	return true
}
