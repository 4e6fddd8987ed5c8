package domain

// CompanyInput is one input row's company name. Row points back into the
// source table so every other column can be written out untouched.
type CompanyInput struct {
	Name string
	Row  int // position in the source table, 0-based
}
