package mu

// Service accessors group Client methods by resource.
// Each service embeds *Client; DocumentsService shadows Client.Upload with
// a file-oriented variant.

type PropertiesService struct{ *Client }

type DocumentsService struct{ *Client }

type CitiesService struct{ *Client }

type AlertsService struct{ *Client }

type PropertyTypesService struct{ *Client }

type OperationsService struct{ *Client }

func (c *Client) Properties() PropertiesService {
	return PropertiesService{c}
}

func (c *Client) Documents() DocumentsService {
	return DocumentsService{c}
}

func (c *Client) Cities() CitiesService {
	return CitiesService{c}
}

func (c *Client) Alerts() AlertsService {
	return AlertsService{c}
}

func (c *Client) PropertyTypes() PropertyTypesService {
	return PropertyTypesService{c}
}

func (c *Client) Operations() OperationsService {
	return OperationsService{c}
}
