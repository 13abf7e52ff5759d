package checkout

import (
	"sync"
	"time"
)

// Countdown é a tarefa recorrente que decrementa o contador de uma
// sessão uma vez por segundo. Deve ser parada (Stop) quando a sessão é
// encerrada, para não deixar ticks órfãos agindo sobre estado velho.
type Countdown struct {
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// StartCountdown inicia a tarefa de tique para a sessão
func StartCountdown(s *Session) *Countdown {
	c := &Countdown{
		ticker: time.NewTicker(time.Second),
		done:   make(chan struct{}),
	}

	go func() {
		for {
			select {
			case <-c.ticker.C:
				s.Tick()
			case <-c.done:
				return
			}
		}
	}()

	return c
}

// Stop cancela a tarefa recorrente. Seguro chamar mais de uma vez.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() {
		c.ticker.Stop()
		close(c.done)
	})
}
