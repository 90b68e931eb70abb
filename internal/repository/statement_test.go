package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMutation(t *testing.T) {
	cases := map[string]bool{
		"SELECT * FROM patients":                        false,
		"select count(*) from patients":                 false,
		"INSERT INTO patients VALUES ('x')":             true,
		"update patients set gender = 'other'":          true,
		"DeLeTe FROM patients":                          true,
		"ALTER TABLE patients ADD COLUMN notes TEXT":    true,
		"create table audit (id int)":                   true,
		"DROP TABLE audit":                              true,
		"SELECT * FROM created_log":                     true,
		"SELECT \"registeredAt\" AS updated FROM p":     true,
		"PRAGMA table_info(patients)":                   false,
	}

	for sql, want := range cases {
		assert.Equal(t, want, isMutation(sql), sql)
	}
}

func TestLeadingKeyword(t *testing.T) {
	assert.Equal(t, "SELECT", leadingKeyword("  select 1"))
	assert.Equal(t, "INSERT", leadingKeyword("-- add one\nINSERT INTO patients VALUES (1)"))
	assert.Equal(t, "WITH", leadingKeyword("/* cte */ with x as (select 1) select * from x"))
	assert.Equal(t, "SELECT", leadingKeyword("(SELECT 1)"))
	assert.Equal(t, "DELETE", leadingKeyword("DELETE;"))
	assert.Equal(t, "", leadingKeyword("-- only a comment"))
	assert.Equal(t, "", leadingKeyword(""))
}

func TestProducesRows(t *testing.T) {
	assert.True(t, producesRows("SELECT * FROM patients"))
	assert.True(t, producesRows("with x as (select 1) select * from x"))
	assert.True(t, producesRows("PRAGMA table_info(patients)"))
	assert.True(t, producesRows("DELETE FROM patients WHERE id = 'a' RETURNING id"))
	assert.False(t, producesRows("DELETE FROM patients"))
	assert.False(t, producesRows("CREATE TABLE t (id int)"))
	assert.False(t, producesRows("UPDATE patients SET returning_flag = 1"))
}
