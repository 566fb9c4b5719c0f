package schema

// Base is a base schema
type Base struct {
	attachement *Attachement `json:"-"`
}

// String implements Schema interface
func (r Base) String() string {
	return ""
}

// Attachement returns schema attachement
func (r Base) Attachement() *Attachement {
	return r.attachement
}

// SetAttachement sets schema attachement
func (r *Base) SetAttachement(v *Attachement) {
	r.attachement = v
}
