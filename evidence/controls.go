package evidence

// ControlMapping names the control each framework assigns to a fault type.
type ControlMapping struct {
	// SOC2 is the SOC 2 trust-services criterion.
	SOC2 string `json:"soc2"`

	// ISO27001 is the ISO/IEC 27001 Annex A control.
	ISO27001 string `json:"iso27001"`

	// NIST is the NIST 800-53 control.
	NIST string `json:"nist"`
}

// controlMappings maps fault types to framework controls. Fault types not
// listed here fall back to the generic access-control mapping.
var controlMappings = map[string]ControlMapping{
	"make_storage_public": {
		SOC2:     "CC6.1",
		ISO27001: "A.8.3",
		NIST:     "AC-3",
	},
	"disable_encryption": {
		SOC2:     "CC6.7",
		ISO27001: "A.8.24",
		NIST:     "SC-28",
	},
	"open_network_access": {
		SOC2:     "CC6.6",
		ISO27001: "A.8.20",
		NIST:     "SC-7",
	},
	"escalate_privileges": {
		SOC2:     "CC6.3",
		ISO27001: "A.8.2",
		NIST:     "AC-6",
	},
}

// defaultMapping covers fault types without an explicit entry.
var defaultMapping = ControlMapping{
	SOC2:     "CC6.1",
	ISO27001: "A.8.3",
	NIST:     "AC-3",
}

// MapControls returns the control mapping for a fault type. The second
// return value reports whether an explicit mapping existed.
func MapControls(faultType string) (ControlMapping, bool) {
	if m, ok := controlMappings[faultType]; ok {
		return m, true
	}
	return defaultMapping, false
}

// ControlIDs flattens the mapping into framework-qualified identifiers.
func (m ControlMapping) ControlIDs() []string {
	return []string{
		"SOC2:" + m.SOC2,
		"ISO27001:" + m.ISO27001,
		"NIST:" + m.NIST,
	}
}
