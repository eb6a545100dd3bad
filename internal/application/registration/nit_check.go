package registration

import (
	"context"
	"fmt"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
	"github.com/jhoicas/wingman-crm/pkg/nit"
)

// DuplicateNITError NIT base ya registrado; lleva los datos del bar existente para el mensaje.
type DuplicateNITError struct {
	Base     string
	BarName  string
	NIT      string
	Contacto string
}

func (e *DuplicateNITError) Error() string {
	msg := fmt.Sprintf("El NIT base %s ya está registrado en la plataforma para el bar %q (NIT completo: %s).", e.Base, e.BarName, e.NIT)
	if e.Contacto != "" {
		msg += fmt.Sprintf(" Contacto: %s.", e.Contacto)
	}
	return msg + " Si crees que esto es un error, contacta al soporte."
}

// Unwrap permite errors.Is(err, domain.ErrDuplicateNIT).
func (e *DuplicateNITError) Unwrap() error { return domain.ErrDuplicateNIT }

// NITCheckUseCase verifica que el NIT base no exista antes de registrar un bar.
type NITCheckUseCase struct {
	bars repository.BarRepository
}

// NewNITCheckUseCase construye el caso de uso.
func NewNITCheckUseCase(bars repository.BarRepository) *NITCheckUseCase {
	return &NITCheckUseCase{bars: bars}
}

// Check compara el NIT base (antes del "-") contra los NIT existentes.
// Entrada vacía no consulta la base y responde exists=false.
func (uc *NITCheckUseCase) Check(ctx context.Context, raw string) (*dto.ValidateNITResponse, error) {
	base := nit.Base(raw)
	if base == "" {
		return &dto.ValidateNITResponse{Exists: false}, nil
	}
	bar, err := uc.bars.FindByNITBase(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNITCheck, err)
	}
	out := &dto.ValidateNITResponse{
		NITBase:                  base,
		DigitoVerificacionValido: nit.HasValidVerificationDigit(raw),
	}
	if bar != nil {
		out.Exists = true
		out.BarName = bar.Name
		out.Contacto = bar.ContactoNombre
		out.ExistingNIT = bar.NIT
	}
	return out, nil
}

// ensureAvailable devuelve *DuplicateNITError si el NIT colisiona.
func (uc *NITCheckUseCase) ensureAvailable(ctx context.Context, raw string) error {
	res, err := uc.Check(ctx, raw)
	if err != nil {
		return err
	}
	if res.Exists {
		return &DuplicateNITError{Base: res.NITBase, BarName: res.BarName, NIT: res.ExistingNIT, Contacto: res.Contacto}
	}
	return nil
}
