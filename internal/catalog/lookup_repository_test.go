package catalog

import (
	"testing"

	"custodian/internal/repository"

	"github.com/stretchr/testify/assert"
)

func TestSoftwareUsedQueryFlattensDistinctSortedNames(t *testing.T) {
	r := NewRepository(repository.NewRepository(nil))

	sql, args, err := r.softwareUsedQuery().ToSQL()

	assert.NoError(t, err)
	assert.Empty(t, args)
	assert.Contains(t, sql, "DISTINCT unnest(software_used)")
	assert.Contains(t, sql, `"software_used" IS NOT NULL`)
	assert.Contains(t, sql, `ORDER BY "software_name" ASC`)
}
