package server

import (
	"time"

	"github.com/compico/mirlib/command"
	"github.com/compico/mirlib/fixture"
	"github.com/compico/mirlib/protocol"
)

// registerDefaultHandlers wires the five built-in commands to f.
// The board ID reported by GetInfo, and therefore the generation every
// other handler answers as, is selected once from s.gen at registration
// time.
func registerDefaultHandlers(s *Server, f *fixture.ServerFixtures) {
	s.RegisterHandler(command.CodePing, pingHandler(f))
	s.RegisterHandler(command.CodeGetInfo, getInfoHandler(f, s.gen))
	s.RegisterHandler(command.CodeReadDateTime, readDateTimeHandler(f, s.clock))
	s.RegisterHandler(command.CodeReadStatus, readStatusHandler(f, s.gen))
	s.RegisterHandler(command.CodeReadInstantValue, readInstantValueHandler(f, s.gen))
}

func pingHandler(f *fixture.ServerFixtures) Handler {
	return func(req *protocol.Packet, resp []byte) (int, error) {
		return command.EncodePingResponse(f.Ping.FirmwareVersion, req.Dest, resp)
	}
}

func getInfoHandler(f *fixture.ServerFixtures, gen command.Generation) Handler {
	return func(req *protocol.Packet, resp []byte) (int, error) {
		g := f.GetInfo
		boardID := g.BoardIDOld
		if gen == command.GenerationTransition {
			boardID = g.BoardIDTransition
		}
		if gen == command.GenerationNew {
			boardID = g.BoardIDNew
		}

		r := command.GetInfoResponse{
			BoardID:             boardID,
			FirmwareVersion:     g.FirmwareVersion,
			FirmwareCRC:         g.FirmwareCRC,
			GroupID:             g.GroupID,
			Flags:               g.Flags,
			ActiveTariffCRC:     g.ActiveTariffCRC,
			PlannedTariffCRC:    g.PlannedTariffCRC,
			Interface1Type:      g.Interface1Type,
			Interface2Type:      g.Interface2Type,
		}
		if gen == command.GenerationNew {
			r.Interface3Type = g.Interface3Type
			r.HasInterface3 = true
			if g.IncludeBattery {
				r.Interface4Type = g.Interface4Type
				r.BatteryVoltage = g.BatteryVoltage
				r.HasBattery = true
			}
		}
		return command.EncodeGetInfoResponse(r, resp)
	}
}

// clockSource is the minimal time surface readDateTimeHandler needs; it is
// satisfied by radio.Clock's NowMillis as well as a plain time.Now wrapper,
// so the handler does not pull in the radio package.
type clockSource interface {
	NowMillis() int64
}

func readDateTimeHandler(f *fixture.ServerFixtures, clock clockSource) Handler {
	return func(req *protocol.Packet, resp []byte) (int, error) {
		now := time.UnixMilli(clock.NowMillis()).UTC()
		r := command.ReadDateTimeResponse{
			Seconds:   byte(now.Second()),
			Minutes:   byte(now.Minute()),
			Hours:     f.ReadDateTime.Hours,
			DayOfWeek: f.ReadDateTime.DayOfWeek,
			Day:       f.ReadDateTime.Day,
			Month:     f.ReadDateTime.Month,
			Year:      f.ReadDateTime.Year,
		}
		return command.EncodeReadDateTimeResponse(r, resp)
	}
}

func readStatusHandler(f *fixture.ServerFixtures, gen command.Generation) Handler {
	return func(req *protocol.Packet, resp []byte) (int, error) {
		if gen == command.GenerationOld {
			o := f.ReadStatusOld
			r := command.ReadStatusResponseOld{
				TotalEnergy:         o.TotalEnergy,
				ConfigByte:          command.ConfigByte(o.ConfigByte),
				DivisionCoeff:       o.DivisionCoeff,
				RoleCode:            o.RoleCode,
				MultiplicationCoeff: o.MultiplicationCoeff,
			}
			for i := range r.Tariff {
				r.Tariff[i] = o.TariffStep * uint32(i+1)
			}
			return command.EncodeReadStatusOldResponse(r, resp)
		}

		n := f.ReadStatusNew
		energyType := command.EnergyActiveForward
		if len(req.Payload) >= 1 {
			energyType = command.EnergyType(req.Payload[0])
		}
		r := command.ReadStatusResponseNew{
			EnergyType:            energyType,
			ConfigByte:            command.ConfigByte(n.ConfigByte),
			VoltageTransformCoeff: n.VoltageTransformCoeff,
			CurrentTransformCoeff: n.CurrentTransformCoeff,
			TotalFull:             n.TotalFull,
			TotalActive:           n.TotalActive,
		}
		for i := range r.Tariff {
			r.Tariff[i] = n.TariffStep * uint32(i+1)
		}
		return command.EncodeReadStatusNewResponse(r, resp)
	}
}

func readInstantValueHandler(f *fixture.ServerFixtures, gen command.Generation) Handler {
	return func(req *protocol.Packet, resp []byte) (int, error) {
		if err := command.CheckSupported(command.ReadInstantValue{}, gen); err != nil {
			return 0, err
		}

		group := command.ParameterGroupBasic
		if len(req.Payload) >= 1 {
			group = command.ParameterGroup(req.Payload[0])
		}
		if group != command.ParameterGroupBasic {
			// Non-basic groups are out of scope for the default fixtures;
			// echo the request's group with no measurement bytes.
			resp[0] = byte(group)
			return 1, nil
		}

		iv := f.ReadInstant
		if gen == command.GenerationNew {
			r := command.ReadInstantValueResponseNew{
				VoltageTransformCoeff: iv.VoltageTransformCoeffTransition,
				CurrentTransformCoeff: iv.CurrentTransformCoeffTransition,
				ActivePower:           iv.ActivePowerNew,
				ReactivePower:         iv.ReactivePowerNew,
				Frequency:             iv.FrequencyRaw,
				CosPhiRaw:             iv.CosPhiRaw,
				VoltageA:              iv.VoltageA,
				VoltageB:              iv.VoltageB,
				VoltageC:              iv.VoltageC,
				CurrentA:              iv.CurrentA,
				CurrentB:              iv.CurrentB,
				CurrentC:              iv.CurrentC,
			}
			return command.EncodeReadInstantValueNewResponse(r, resp)
		}

		r := command.ReadInstantValueResponseTransition{
			VoltageTransformCoeff: iv.VoltageTransformCoeffTransition,
			CurrentTransformCoeff: iv.CurrentTransformCoeffTransition,
			ActivePower:           iv.ActivePowerTransition,
			ReactivePower:         iv.ReactivePowerTransition,
			Frequency:             iv.FrequencyRaw,
			CosPhiRaw:             iv.CosPhiRaw,
			VoltageA:              iv.VoltageA,
			VoltageB:              iv.VoltageB,
			VoltageC:              iv.VoltageC,
			CurrentA:              iv.CurrentA,
			CurrentB:              iv.CurrentB,
			CurrentC:              iv.CurrentC,
			Is100ASupport:         f.GetInfo.Flags&0x80 != 0,
		}
		return command.EncodeReadInstantValueTransitionResponse(r, resp)
	}
}
