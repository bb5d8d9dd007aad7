package chart

import "sort"

type TreatmentType struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Catalog is the fixed list of treatments a tooth history entry can reference.
type Catalog struct {
	byCode map[string]TreatmentType
}

func NewCatalog(types []TreatmentType) *Catalog {
	c := &Catalog{byCode: make(map[string]TreatmentType, len(types))}
	for _, t := range types {
		c.byCode[t.Code] = t
	}
	return c
}

func DefaultCatalog() *Catalog {
	return NewCatalog([]TreatmentType{
		{Code: "cleaning", Name: "Professional cleaning", Category: "preventive"},
		{Code: "scaling", Name: "Scaling and root planing", Category: "preventive"},
		{Code: "sealant", Name: "Fissure sealant", Category: "preventive"},
		{Code: "xray", Name: "Periapical X-ray", Category: "diagnostic"},
		{Code: "filling", Name: "Composite filling", Category: "restorative"},
		{Code: "root-canal", Name: "Root canal treatment", Category: "endodontic"},
		{Code: "crown", Name: "Ceramic crown", Category: "prosthetic"},
		{Code: "bridge", Name: "Fixed bridge", Category: "prosthetic"},
		{Code: "veneer", Name: "Porcelain veneer", Category: "cosmetic"},
		{Code: "whitening", Name: "Whitening", Category: "cosmetic"},
		{Code: "extraction", Name: "Extraction", Category: "surgical"},
		{Code: "implant", Name: "Implant placement", Category: "surgical"},
	})
}

func (c *Catalog) Lookup(code string) (TreatmentType, bool) {
	t, ok := c.byCode[code]
	return t, ok
}

func (c *Catalog) List() []TreatmentType {
	out := make([]TreatmentType, 0, len(c.byCode))
	for _, t := range c.byCode {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Code < out[j].Code
	})
	return out
}
