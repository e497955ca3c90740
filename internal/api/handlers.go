package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blockandplay/explorer/internal/explorer"
	"github.com/blockandplay/explorer/pkg/model"
	"github.com/blockandplay/explorer/pkg/pagination"
)

func (s *Server) pageParams(q pageQuery, def int) (pagination.Params, error) {
	return q.params(def, s.cfg.Paging.MaxLimit)
}

func (s *Server) listBlocks(c *gin.Context) {
	var q blocksQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	if q.BlockID != "" {
		s.writeBlock(c, q.BlockID)
		return
	}

	params, err := s.pageParams(q.pageQuery, defaultLimit)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	page, err := s.svc.Blocks(params)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.BlocksResponse{Blocks: page.Items, Total: page.Total})
}

func (s *Server) getBlock(c *gin.Context) {
	s.writeBlock(c, c.Param("id"))
}

func (s *Server) writeBlock(c *gin.Context, id string) {
	block, err := s.svc.Block(id)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.BlockResponse{Block: block})
}

func (s *Server) listTransactions(c *gin.Context) {
	var q transactionsQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	if q.TxHash != "" {
		s.writeTransaction(c, q.TxHash)
		return
	}

	params, err := s.pageParams(q.pageQuery, defaultLimit)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	page, err := s.svc.Transactions(params)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.TransactionsResponse{Transactions: page.Items, Total: page.Total})
}

func (s *Server) getTransaction(c *gin.Context) {
	s.writeTransaction(c, c.Param("hash"))
}

func (s *Server) writeTransaction(c *gin.Context, hash string) {
	tx, err := s.svc.Transaction(hash)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.TransactionResponse{Transaction: tx})
}

func (s *Server) listPools(c *gin.Context) {
	var q poolsQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	params, err := s.pageParams(q.pageQuery, defaultGridLimit)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	page, err := s.svc.Pools(params, q.Status)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.PoolsResponse{Pools: page.Items, Total: page.Total})
}

func (s *Server) listPenalties(c *gin.Context) {
	var q penaltiesQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	params, err := s.pageParams(q.pageQuery, defaultLimit)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	page, err := s.svc.Penalties(params, q.Type)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.PenaltiesResponse{Penalties: page.Items, Total: page.Total})
}

func (s *Server) listNFX(c *gin.Context) {
	var q nfxQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	if q.ID != "" {
		s.writeNFX(c, q.ID)
		return
	}

	params, err := s.pageParams(q.pageQuery, defaultGridLimit)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	page, err := s.svc.NFXList(params)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.NFXListResponse{NFX: page.Items, Total: page.Total})
}

func (s *Server) getNFX(c *gin.Context) {
	s.writeNFX(c, c.Param("id"))
}

func (s *Server) writeNFX(c *gin.Context, id string) {
	detail, err := s.svc.NFX(id)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.NFXResponse{NFX: detail})
}

func (s *Server) getToken(c *gin.Context) {
	var q addressQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	detail, err := s.svc.Token(q.Address)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) getContract(c *gin.Context) {
	var q addressQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	detail, err := s.svc.Contract(q.Address)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) listNFTs(c *gin.Context) {
	var q nftsQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	params, err := s.pageParams(q.pageQuery, defaultLimit)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	page, err := s.svc.NFTs(explorer.NFTQuery{Type: q.Type, Query: q.Query}, params)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.NFTsResponse{NFTs: page.Items, Total: page.Total})
}

func (s *Server) getHistory(c *gin.Context) {
	var q historyQuery
	if err := bindQuery(c, &q); err != nil {
		respondError(c, s.logger, err)
		return
	}
	events, err := s.svc.History(q.AssetID)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, model.HistoryResponse{Events: events, Total: len(events)})
}

func (s *Server) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Metrics())
}

func (s *Server) getNetwork(c *gin.Context) {
	c.JSON(http.StatusOK, s.svc.Network())
}
