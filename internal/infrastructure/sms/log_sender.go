// Package sms simula el canal SMS: el código se registra en el log en lugar de enviarse.
package sms

import (
	"context"

	"github.com/jhoicas/myshop-api/internal/application/auth"
	"github.com/jhoicas/myshop-api/pkg/logger"
)

var _ auth.CodeSender = (*LogSender)(nil)

// LogSender implementa auth.CodeSender escribiendo el código en el log.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.Component("sms")}
}

func (s *LogSender) Send(ctx context.Context, phone, code string) error {
	s.log.Info().Str("phone", phone).Str("code", code).Msg("SMS simulado: código de verificación")
	return nil
}
