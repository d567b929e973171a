package client

import (
	"fmt"

	"github.com/compico/mirlib/command"
)

// Ping sends command.Ping to target and returns the typed response.
func (c *Client) Ping(target uint16) (command.PingResponse, error) {
	resp, err := c.Send(command.Ping{}, target)
	if err != nil {
		return command.PingResponse{}, err
	}
	return resp.(command.PingResponse), nil
}

// ReadDateTime sends command.ReadDateTime to target.
func (c *Client) ReadDateTime(target uint16) (command.ReadDateTimeResponse, error) {
	resp, err := c.Send(command.ReadDateTime{}, target)
	if err != nil {
		return command.ReadDateTimeResponse{}, err
	}
	return resp.(command.ReadDateTimeResponse), nil
}

// GetInfo sends command.GetInfo to target.
func (c *Client) GetInfo(target uint16) (command.GetInfoResponse, error) {
	resp, err := c.Send(command.GetInfo{}, target)
	if err != nil {
		return command.GetInfoResponse{}, err
	}
	return resp.(command.GetInfoResponse), nil
}

// ReadStatus sends command.ReadStatus to target.
func (c *Client) ReadStatus(target uint16) (command.ReadStatusResponse, error) {
	resp, err := c.Send(command.ReadStatus{}, target)
	if err != nil {
		return command.ReadStatusResponse{}, err
	}
	return resp.(command.ReadStatusResponse), nil
}

// ReadInstantValue sends command.ReadInstantValue to target.
func (c *Client) ReadInstantValue(target uint16) (command.ReadInstantValueResponse, error) {
	resp, err := c.Send(command.ReadInstantValue{}, target)
	if err != nil {
		return command.ReadInstantValueResponse{}, err
	}
	return resp.(command.ReadInstantValueResponse), nil
}

// AutoDetectGeneration sends a GetInfo and sets the client's expected
// generation from the response size, for callers that don't already know
// which generation they're talking to.
func (c *Client) AutoDetectGeneration(target uint16) (command.Generation, error) {
	resp, err := c.GetInfo(target)
	if err != nil {
		return command.GenerationUnknown, fmt.Errorf("auto-detect generation: %w", err)
	}
	c.gen = resp.Generation
	return c.gen, nil
}
