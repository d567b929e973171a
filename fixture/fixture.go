// Package fixture holds the default server fixtures: hard-coded sample
// meter readings used when a host has not supplied real values.
package fixture

// ServerFixtures is the full set of sample values a Server falls back to
// for its five built-in command handlers. A host loads this from YAML
// (internal/config) or starts from Default() and overrides fields.
type ServerFixtures struct {
	Ping             PingFixture             `yaml:"ping"`
	GetInfo          GetInfoFixture          `yaml:"get_info"`
	ReadDateTime     ReadDateTimeFixture      `yaml:"read_date_time"`
	ReadStatusOld    ReadStatusOldFixture     `yaml:"read_status_old"`
	ReadStatusNew    ReadStatusNewFixture     `yaml:"read_status_new"`
	ReadInstant      ReadInstantValueFixture  `yaml:"read_instant_value"`
}

type PingFixture struct {
	FirmwareVersion uint16 `yaml:"firmware_version"`
}

// GetInfoFixture carries one boardId per generation since the same server
// process may be configured to answer as any of the three.
type GetInfoFixture struct {
	BoardIDOld        byte   `yaml:"board_id_old"`
	BoardIDTransition byte   `yaml:"board_id_transition"`
	BoardIDNew        byte   `yaml:"board_id_new"`
	FirmwareVersion   uint16 `yaml:"firmware_version"`
	FirmwareCRC       uint16 `yaml:"firmware_crc"`
	GroupID           byte   `yaml:"group_id"`
	Flags             byte   `yaml:"flags"`
	ActiveTariffCRC   uint16 `yaml:"active_tariff_crc"`
	PlannedTariffCRC  uint16 `yaml:"planned_tariff_crc"`
	Interface1Type    byte   `yaml:"interface1_type"`
	Interface2Type    byte   `yaml:"interface2_type"`
	Interface3Type    byte   `yaml:"interface3_type"`
	Interface4Type    byte   `yaml:"interface4_type"`
	BatteryVoltage    uint16 `yaml:"battery_voltage_mv"`
	IncludeBattery    bool   `yaml:"include_battery"`
}

// ReadDateTimeFixture holds the date/time fields a server answers with
// verbatim; seconds and minutes are derived from the clock at response
// time instead.
type ReadDateTimeFixture struct {
	Hours     byte `yaml:"hours"`
	DayOfWeek byte `yaml:"day_of_week"`
	Day       byte `yaml:"day"`
	Month     byte `yaml:"month"`
	Year      byte `yaml:"year"`
}

type ReadStatusOldFixture struct {
	TotalEnergy         uint32    `yaml:"total_energy"`
	ConfigByte          byte      `yaml:"config_byte"`
	DivisionCoeff       byte      `yaml:"division_coeff"`
	RoleCode            byte      `yaml:"role_code"`
	MultiplicationCoeff uint32    `yaml:"multiplication_coeff"`
	TariffStep          uint32    `yaml:"tariff_step"`
}

type ReadStatusNewFixture struct {
	ConfigByte            byte   `yaml:"config_byte"`
	VoltageTransformCoeff uint16 `yaml:"voltage_transform_coeff"`
	CurrentTransformCoeff uint16 `yaml:"current_transform_coeff"`
	TotalFull             uint32 `yaml:"total_full"`
	TotalActive           uint32 `yaml:"total_active"`
	TariffStep            uint32 `yaml:"tariff_step"`
}

type ReadInstantValueFixture struct {
	VoltageTransformCoeffTransition uint16 `yaml:"voltage_transform_coeff_transition"`
	CurrentTransformCoeffTransition uint16 `yaml:"current_transform_coeff_transition"`
	ActivePowerTransition           uint16 `yaml:"active_power_transition"`
	ReactivePowerTransition         uint16 `yaml:"reactive_power_transition"`
	ActivePowerNew                  uint32 `yaml:"active_power_new"`
	ReactivePowerNew                uint32 `yaml:"reactive_power_new"`
	FrequencyRaw                    uint16 `yaml:"frequency_raw"`
	CosPhiRaw                       uint16 `yaml:"cos_phi_raw"`
	VoltageA, VoltageB, VoltageC     uint16 `yaml:"-"`
	CurrentA, CurrentB, CurrentC     uint32 `yaml:"-"`
}

// Default returns a fixed set of plausible sample values covering all
// three generations.
func Default() *ServerFixtures {
	return &ServerFixtures{
		Ping: PingFixture{FirmwareVersion: 0x0100},
		GetInfo: GetInfoFixture{
			BoardIDOld: 0x01, BoardIDTransition: 0x07, BoardIDNew: 0x09,
			FirmwareVersion: 0x0100, FirmwareCRC: 0x1234,
			GroupID: 0, Flags: 0x80,
			ActiveTariffCRC: 0x5678, PlannedTariffCRC: 0x9ABC,
			Interface1Type: 1, Interface2Type: 2, Interface3Type: 3, Interface4Type: 4,
			BatteryVoltage: 3300, IncludeBattery: true,
		},
		ReadDateTime: ReadDateTimeFixture{Hours: 14, DayOfWeek: 2, Day: 27, Month: 5, Year: 25},
		ReadStatusOld: ReadStatusOldFixture{
			TotalEnergy: 12345678, ConfigByte: 0x03, DivisionCoeff: 1,
			RoleCode: 0x32, MultiplicationCoeff: 1, TariffStep: 1000000,
		},
		ReadStatusNew: ReadStatusNewFixture{
			ConfigByte: 0x03, VoltageTransformCoeff: 1, CurrentTransformCoeff: 1,
			TotalFull: 87654321, TotalActive: 87654321, TariffStep: 2000000,
		},
		ReadInstant: ReadInstantValueFixture{
			VoltageTransformCoeffTransition: 1, CurrentTransformCoeffTransition: 5,
			ActivePowerTransition: 1234, ReactivePowerTransition: 567,
			ActivePowerNew: 12340, ReactivePowerNew: 5670,
			FrequencyRaw: 5000, CosPhiRaw: 850,
			VoltageA: 23000, VoltageB: 23100, VoltageC: 22900,
			CurrentA: 5350, CurrentB: 5420, CurrentC: 5280,
		},
	}
}
