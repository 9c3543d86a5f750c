//go:build !darwin

package inject

type keyboard struct{}

func bonding() (*keyboard, error) { return nil, ErrUnsupported }

func (*keyboard) down(uint16) error { return ErrUnsupported }
func (*keyboard) up(uint16) error   { return ErrUnsupported }
