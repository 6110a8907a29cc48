package types

import (
	"gopkg.in/yaml.v3"
	"io/ioutil"
	"strings"
)

type Department string

const (
	Cardiology        Department = "Cardiology"
	Neurology         Department = "Neurology"
	Gastroenterology  Department = "Gastroenterology"
	Pulmonology       Department = "Pulmonology"
	Orthopedics       Department = "Orthopedics"
	EmergencyTrauma   Department = "Emergency_Trauma"
	GeneralMedicine   Department = "General_Medicine"
	Dermatology       Department = "Dermatology"
	ENT               Department = "ENT"
	UrologyNephrology Department = "Urology_Nephrology"
	Psychiatry        Department = "Psychiatry"
	Toxicology        Department = "Toxicology"
)

// DefaultDepartment is returned whenever a complaint cannot be mapped.
const DefaultDepartment = GeneralMedicine

// StoreName is the doctor store lookup key for the department.
func (d Department) StoreName() string {
	return strings.ToLower(string(d))
}

// DisplayName replaces the underscores used in storage identifiers.
func (d Department) DisplayName() string {
	return strings.ReplaceAll(string(d), "_", " ")
}

// DepartmentEntry ties a department to a keyword list for substring
// matching and a description sentence for semantic matching. The
// description carries the department identifier followed by a
// parenthetical, e.g. "Cardiology (chest pain, palpitations, ...)".
type DepartmentEntry struct {
	Department  Department `yaml:"department"`
	Keywords    []string   `yaml:"keywords"`
	Description string     `yaml:"description"`
}

type Taxonomy struct {
	Entries []DepartmentEntry `yaml:"departments"`
}

// DefaultTaxonomy returns the built-in department table. Entry order is
// significant: the keyword matcher returns the first department in this
// order whose keyword list matches.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{Entries: []DepartmentEntry{
		{
			Department:  Cardiology,
			Keywords:    []string{"chest pain", "angina", "heart attack", "heart failure", "arrhythmia", "chest tightness", "palpitations", "heart"},
			Description: "Cardiology (chest pain, angina, heart attack, palpitations, heart failure and other cardiac conditions)",
		},
		{
			Department:  Neurology,
			Keywords:    []string{"stroke", "migraine", "vertigo", "confusion", "syncope", "dizziness", "unresponsive", "headache", "blurry vision", "faint"},
			Description: "Neurology (stroke, migraine, dizziness, headache, fainting, confusion and other brain or nerve problems)",
		},
		{
			Department:  Gastroenterology,
			Keywords:    []string{"gastric", "indigestion", "abdominal", "nausea", "vomiting", "appetite", "stomach", "belly"},
			Description: "Gastroenterology (abdominal pain, nausea, vomiting, indigestion and other stomach or digestive problems)",
		},
		{
			Department:  Pulmonology,
			Keywords:    []string{"pneumonia", "breath", "cough", "respiratory", "asthma", "chest heaviness", "lung"},
			Description: "Pulmonology (shortness of breath, cough, asthma, pneumonia and other lung or respiratory problems)",
		},
		{
			Department:  Orthopedics,
			Keywords:    []string{"sprain", "fracture", "broken", "broke", "bone", "joint", "back pain", "leg", "shoulder", "knee", "arm"},
			Description: "Orthopedics (fractures, sprains, broken bones, joint pain, back pain and other bone or muscle injuries)",
		},
		{
			Department:  EmergencyTrauma,
			Keywords:    []string{"crash", "trauma", "fall", "injury", "severe", "shock", "overdose", "accident", "bleed"},
			Description: "Emergency_Trauma (major accidents, crashes, severe bleeding, shock, multi-trauma and life threatening injuries)",
		},
		{
			Department:  GeneralMedicine,
			Keywords:    []string{"fever", "flu", "fatigue", "weakness", "checkup", "edema", "dehydration", "cold"},
			Description: "General_Medicine (fever, flu, fatigue, weakness, dehydration, routine checkups and general illness)",
		},
		{
			Department:  Dermatology,
			Keywords:    []string{"rash", "skin", "itch", "redness"},
			Description: "Dermatology (rashes, itching, redness and other skin conditions)",
		},
		{
			Department:  ENT,
			Keywords:    []string{"ear", "throat", "nose", "sinus"},
			Description: "ENT (ear pain, sore throat, sinus and nose problems)",
		},
		{
			Department:  UrologyNephrology,
			Keywords:    []string{"kidney", "urine", "urinary", "bladder", "stone"},
			Description: "Urology_Nephrology (kidney stones, urinary pain, bladder and kidney problems)",
		},
		{
			Department:  Psychiatry,
			Keywords:    []string{"anxiety", "depression", "suicide", "hallucination", "panic"},
			Description: "Psychiatry (anxiety, depression, panic attacks, hallucinations and other mental health concerns)",
		},
		{
			Department:  Toxicology,
			Keywords:    []string{"poison", "drug", "pill", "chemical", "bite", "venom", "sting"},
			Description: "Toxicology (poisoning, drug overdose, chemical exposure, snake bites, venom and stings)",
		},
	}}
}

// LoadTaxonomy reads a department table from a YAML file. Used to
// override the built-in table without a rebuild; entries fully replace
// the defaults.
func LoadTaxonomy(path string) (Taxonomy, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return Taxonomy{}, err
	}
	var t Taxonomy
	if err := yaml.Unmarshal(buf, &t); err != nil {
		return Taxonomy{}, err
	}
	return t, nil
}

// DepartmentFromDescription strips the descriptive parenthetical,
// leaving the bare department identifier.
func DepartmentFromDescription(description string) Department {
	if idx := strings.Index(description, " ("); idx >= 0 {
		return Department(description[:idx])
	}
	return Department(strings.TrimSpace(description))
}
