package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// SignIn authenticates against the daemon's identity provider.
func (c *Client) SignIn(email, password string) (*SignInResponse, error) {
	var resp SignInResponse
	if err := c.client.Call("Fixify.SignIn", SignInRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignOut ends the current session.
func (c *Client) SignOut() (*SignOutResponse, error) {
	var resp SignOutResponse
	if err := c.client.Call("Fixify.SignOut", SignOutRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Fixify.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AcquireCamera asks the daemon to hold the camera for previewing.
func (c *Client) AcquireCamera() (*CaptureResponse, error) {
	var resp CaptureResponse
	if err := c.client.Call("Fixify.AcquireCamera", CaptureRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordStart begins recording from the active preview.
func (c *Client) RecordStart() (*CaptureResponse, error) {
	var resp CaptureResponse
	if err := c.client.Call("Fixify.RecordStart", CaptureRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordStop finalizes the recording.
func (c *Client) RecordStop() (*CaptureResponse, error) {
	var resp CaptureResponse
	if err := c.client.Call("Fixify.RecordStop", CaptureRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetCapture discards the current recording and re-acquires the camera.
func (c *Client) ResetCapture() (*CaptureResponse, error) {
	var resp CaptureResponse
	if err := c.client.Call("Fixify.ResetCapture", CaptureRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Submit sends the waiting clip and description for analysis.
func (c *Client) Submit(description string) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.client.Call("Fixify.Submit", SubmitRequest{Description: description}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReportList returns session reports optionally filtered by statuses.
func (c *Client) ReportList(statuses []string) (*ReportListResponse, error) {
	var resp ReportListResponse
	if err := c.client.Call("Fixify.ReportList", ReportListRequest{Statuses: statuses}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReportDescribe returns details for a single report.
func (c *Client) ReportDescribe(id string) (*ReportDescribeResponse, error) {
	var resp ReportDescribeResponse
	if err := c.client.Call("Fixify.ReportDescribe", ReportDescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestConnection probes the analysis pipeline end to end.
func (c *Client) TestConnection() (*TestConnectionResponse, error) {
	var resp TestConnectionResponse
	if err := c.client.Call("Fixify.TestConnection", TestConnectionRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop asks the daemon process to shut down.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Fixify.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
