package policies

import (
	"path/filepath"

	"github.com/zeu5/torcs-qlearning/core"
)

func TablePath(resources string, d core.Domain) string {
	return filepath.Join(resources, d.TableFile())
}
