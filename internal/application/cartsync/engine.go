// Package cartsync mantiene el carrito del cliente y lo sincroniza con el carrito remoto.
//
// El Engine es dueño del estado local: aplica cada comando de forma optimista, persiste el
// resultado y adopta los valores canónicos del servidor. El mutex solo protege memoria: nunca
// se mantiene tomado durante una llamada de red. La consistencia se apoya en tres mecanismos:
// el snapshot del último payload confirmado (evita escrituras redundantes), el flag de mutación
// desde la última confirmación y el número de secuencia de cada petición (las respuestas viejas
// se descartan).
package cartsync

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/retiros-api/internal/application/dto"
	"github.com/jhoicas/retiros-api/internal/application/ports"
	"github.com/jhoicas/retiros-api/internal/domain"
	"github.com/jhoicas/retiros-api/internal/domain/cart"
	"github.com/jhoicas/retiros-api/internal/domain/entity"
)

// Outcome resultado de un intento de sincronización.
//
// Los comandos (ApplyMerge, DeleteLine, SetDistributor) marcan el estado como mutado, así que
// siempre envían. La comparación con el snapshot solo evita escrituras en llamadas explícitas a
// Sync, como la que vacía la cola antes de confirmar un retiro.
type Outcome int

const (
	// SyncSkipped el payload es igual al último confirmado y no hubo mutaciones (solo Sync explícito): sin red.
	SyncSkipped Outcome = iota
	// SyncApplied la respuesta es la más reciente y quedó como estado confirmado.
	SyncApplied
	// SyncDiscarded la respuesta llegó tarde (hubo otra petición o mutación después) o la sesión cerró.
	SyncDiscarded
	// SyncFailed la petición falló; el estado local queda intacto y pendiente de sincronizar.
	SyncFailed
)

func (o Outcome) String() string {
	switch o {
	case SyncSkipped:
		return "skipped"
	case SyncApplied:
		return "applied"
	case SyncDiscarded:
		return "discarded"
	case SyncFailed:
		return "failed"
	}
	return "unknown"
}

// Engine motor de sincronización del carrito de un distribuidor.
type Engine struct {
	store ports.CartStore
	owner string
	log   zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    entity.CartState
	loaded   bool
	snapshot []byte // payload { items, selectedDistributor } confirmado por el servidor
	mutated  bool   // hubo comandos desde la última respuesta adoptada
	seq      uint64 // se incrementa en cada envío, mutación, carga y reset
	inFlight int
	closed   bool
}

// New construye el motor para el carrito de ownerCode. El estado arranca vacío hasta Load.
func New(store ports.CartStore, ownerCode string, log zerolog.Logger) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		store:  store,
		owner:  ownerCode,
		log:    log.With().Str("component", "cartsync").Str("owner", ownerCode).Logger(),
		ctx:    ctx,
		cancel: cancel,
		state:  cart.Empty(),
	}
}

// OwnerCode distribuidor dueño del carrito (usuario de la sesión).
func (e *Engine) OwnerCode() string { return e.owner }

// Load hidrata el estado con el carrito del servidor. La primera hidratación no dispara sync.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return domain.ErrSessionClosed
	}
	e.seq++
	seq := e.seq
	e.mu.Unlock()

	reqCtx, cancel := e.RequestContext(ctx)
	defer cancel()
	server, err := e.store.GetCart(reqCtx, e.owner)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	if err != nil {
		return err
	}
	if seq != e.seq {
		e.log.Debug().Uint64("seq", seq).Msg("carga descartada por una operación posterior")
		return nil
	}

	state := cart.Normalize(server)
	e.state = state
	e.snapshot = encode(state.Lines, state.DistributorCode)
	e.mutated = false
	e.loaded = true
	e.log.Debug().Int("lines", len(state.Lines)).Str("distributor", state.DistributorCode).Msg("carrito cargado")
	return nil
}

// ApplyMerge agrega selecciones confirmadas y sincroniza.
func (e *Engine) ApplyMerge(ctx context.Context, selections []entity.Selection) (Outcome, error) {
	return e.dispatch(ctx, cart.MergeSelections{Selections: selections})
}

// DeleteLine elimina la línea index y sincroniza.
func (e *Engine) DeleteLine(ctx context.Context, index int) (Outcome, error) {
	return e.dispatch(ctx, cart.DeleteLine{Index: index})
}

// SetDistributor cambia el distribuidor que retira y sincroniza. "" quita la selección.
func (e *Engine) SetDistributor(ctx context.Context, code string) (Outcome, error) {
	return e.dispatch(ctx, cart.SetDistributor{Code: code})
}

func (e *Engine) dispatch(ctx context.Context, cmd cart.Command) (Outcome, error) {
	e.mu.Lock()
	if err := e.usable(); err != nil {
		e.mu.Unlock()
		return SyncSkipped, err
	}
	next, needsSync, err := cart.Reduce(e.state, cmd)
	if err != nil || !needsSync {
		e.mu.Unlock()
		return SyncSkipped, err
	}
	e.state = next
	e.mutated = true
	e.seq++
	e.mu.Unlock()

	e.log.Debug().Str("command", cmd.Name()).Int("lines", len(next.Lines)).Msg("comando aplicado")
	return e.Sync(ctx)
}

// Sync persiste el estado local si difiere del último confirmado (o si hubo mutaciones desde
// entonces). Sin reintentos: un fallo deja el estado intacto y la mutación pendiente.
func (e *Engine) Sync(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	if err := e.usable(); err != nil {
		e.mu.Unlock()
		return SyncSkipped, err
	}
	lines := e.state.Clone().Lines
	distributor := e.state.DistributorCode
	payload := encode(lines, distributor)
	if !e.mutated && bytes.Equal(payload, e.snapshot) {
		e.mu.Unlock()
		e.log.Debug().Msg("sync omitido: sin cambios")
		return SyncSkipped, nil
	}
	e.seq++
	seq := e.seq
	e.inFlight++
	e.mu.Unlock()

	reqCtx, cancel := e.RequestContext(ctx)
	defer cancel()
	server, err := e.store.UpsertCart(reqCtx, e.owner, lines, distributor)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight--
	if e.closed {
		return SyncDiscarded, domain.ErrSessionClosed
	}
	if seq != e.seq {
		if err != nil {
			e.log.Warn().Err(err).Uint64("seq", seq).Uint64("latest", e.seq).Msg("sync superado falló")
		} else {
			e.log.Debug().Uint64("seq", seq).Uint64("latest", e.seq).Msg("respuesta de sync descartada")
		}
		return SyncDiscarded, nil
	}
	if err != nil {
		e.log.Warn().Err(err).Uint64("seq", seq).Msg("sync fallido")
		return SyncFailed, err
	}

	adopted := cart.Normalize(server)
	adopted.DistributorCode = distributor
	if !sameState(adopted, e.state) {
		e.state = adopted
		e.log.Debug().Uint64("seq", seq).Msg("estado del servidor adoptado")
	}
	e.snapshot = encode(e.state.Lines, distributor)
	e.mutated = false
	return SyncApplied, nil
}

// State devuelve una copia del estado actual.
func (e *Engine) State() entity.CartState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Loading indica si hay una sincronización en curso (totales todavía no definitivos).
func (e *Engine) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight > 0
}

// Loaded indica si el carrito ya se hidrató con Load.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Checkpoint devuelve una copia del estado junto con la versión en que se tomó. Cualquier carga,
// mutación, envío o reset posterior cambia la versión.
func (e *Engine) Checkpoint() (entity.CartState, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), e.seq
}

// Reset deja el carrito vacío y sin distribuidor, como quedó en el servidor tras limpiarlo.
// Las respuestas en vuelo quedan obsoletas. Tras Close no toca el estado.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	e.reset()
	return nil
}

// ResetAt reinicia solo si el estado sigue en la versión de Checkpoint; si hubo cambios desde
// entonces devuelve ErrCartChanged y conserva el estado.
func (e *Engine) ResetAt(version uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return domain.ErrSessionClosed
	}
	if e.seq != version {
		return domain.ErrCartChanged
	}
	e.reset()
	return nil
}

func (e *Engine) reset() {
	e.state = cart.Empty()
	e.snapshot = encode(nil, "")
	e.mutated = false
	e.seq++
}

// Close cancela las peticiones en curso; ninguna respuesta posterior modifica el estado.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.cancel()
}

// Closed indica si el motor ya se cerró.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) usable() error {
	if e.closed {
		return domain.ErrSessionClosed
	}
	if !e.loaded {
		return domain.ErrNotLoaded
	}
	return nil
}

// RequestContext deriva un ctx que se cancela con el del llamador o con el cierre del motor.
// Toda petición de la sesión debe usarlo.
func (e *Engine) RequestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(e.ctx, cancel)
	return reqCtx, func() {
		stop()
		cancel()
	}
}

// encode serializa el payload de sincronización; es la base de la comparación con el snapshot.
func encode(lines []entity.CartLine, distributor string) []byte {
	b, err := json.Marshal(dto.NewUpsertCartRequest(lines, distributor))
	if err != nil {
		// Solo tipos serializables: no debería ocurrir.
		return nil
	}
	return b
}

func sameState(a, b entity.CartState) bool {
	ja, errA := json.Marshal(dto.CartResponseFromState(a))
	jb, errB := json.Marshal(dto.CartResponseFromState(b))
	return errA == nil && errB == nil && bytes.Equal(ja, jb)
}
